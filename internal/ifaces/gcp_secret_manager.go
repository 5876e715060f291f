package ifaces

import (
	"context"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

// GCPSecretManager is an interface for the GCP Secret Manager client.
//
//go:generate mockery --output ./ --name GCPSecretManager --filename mock_gcp_secret_manager.go --outpkg ifaces --structname MockGCPSecretManager
type GCPSecretManager interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)

	// Close releases resources held by the client.
	Close() error
}
