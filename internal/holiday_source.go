package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/spacelift-io/workdayscalr/internal/ifaces"
)

const tracerName = "github.com/spacelift-io/workdayscalr/internal"

const (
	schemeFile  = "file://"
	schemeSSM   = "ssm://"
	schemeGCPSM = "gcpsm://"
	schemeAzKV  = "azkv://"
)

// HolidaySource fetches the raw holidays document from wherever it is stored.
type HolidaySource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Close() error
	String() string
}

// NewHolidaySource builds the source for the given location. Locations without
// a known scheme are treated as local file paths.
func NewHolidaySource(ctx context.Context, location string, cfg *RuntimeConfig) (HolidaySource, error) {
	switch {
	case strings.HasPrefix(location, schemeSSM):
		return newSSMSource(ctx, strings.TrimPrefix(location, schemeSSM), cfg.AWSRegion)
	case strings.HasPrefix(location, schemeGCPSM):
		return newGCPSecretSource(ctx, strings.TrimPrefix(location, schemeGCPSM))
	case strings.HasPrefix(location, schemeAzKV), isKeyVaultURL(location):
		return newAzureKeyVaultSource(location)
	default:
		return &FileSource{Path: strings.TrimPrefix(location, schemeFile)}, nil
	}
}

// LoadHolidayCalendar fetches and parses the holidays, then builds the
// calendar from them. The source is closed once done.
func LoadHolidayCalendar(ctx context.Context, source HolidaySource) (calendar *HolidayCalendar, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "holidays.load")
	defer span.End()

	span.SetAttributes(attribute.String("source", source.String()))

	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("could not close holidays source: %w", closeErr))
		}
	}()

	raw, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch holidays from %s: %w", source, err)
	}

	dates, err := ParseHolidays(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse holidays from %s: %w", source, err)
	}

	calendar = NewHolidayCalendar(dates)

	span.SetAttributes(attribute.Int("holidays", calendar.Len()))

	return calendar, nil
}

// FileSource reads holidays from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

func (s *FileSource) Close() error { return nil }

func (s *FileSource) String() string { return s.Path }

// SSMSource reads holidays from an AWS SSM Parameter Store parameter.
type SSMSource struct {
	SSM           ifaces.SSM
	ParameterName string
}

func newSSMSource(ctx context.Context, name, region string) (*SSMSource, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	otelaws.AppendMiddlewares(&awsConfig.APIOptions)

	return &SSMSource{SSM: ssm.NewFromConfig(awsConfig), ParameterName: name}, nil
}

func (s *SSMSource) Fetch(ctx context.Context) ([]byte, error) {
	output, err := s.SSM.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.ParameterName),
		WithDecryption: aws.Bool(true),
	})

	if err != nil {
		return nil, fmt.Errorf("could not get holidays parameter from SSM: %w", err)
	} else if output.Parameter == nil {
		return nil, errors.New("could not find holidays parameter in SSM")
	} else if output.Parameter.Value == nil {
		return nil, errors.New("could not find holidays parameter value in SSM")
	}

	return []byte(*output.Parameter.Value), nil
}

func (s *SSMSource) Close() error { return nil }

func (s *SSMSource) String() string { return schemeSSM + s.ParameterName }

// GCPSecretSource reads holidays from a GCP Secret Manager secret version.
type GCPSecretSource struct {
	SecretManager ifaces.GCPSecretManager
	VersionName   string
}

func newGCPSecretSource(ctx context.Context, name string) (*GCPSecretSource, error) {
	if !strings.HasPrefix(name, "projects/") || !strings.Contains(name, "/secrets/") {
		return nil, fmt.Errorf("invalid Secret Manager name: %s (expected projects/{project}/secrets/{secret}[/versions/{version}])", name)
	}

	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	// The client is only needed while loading, it is closed with the source.
	smClient, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create GCP Secret Manager client: %w", err)
	}

	return &GCPSecretSource{SecretManager: smClient, VersionName: name}, nil
}

func (s *GCPSecretSource) Fetch(ctx context.Context) ([]byte, error) {
	secret, err := s.SecretManager.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.VersionName,
	})
	if err != nil {
		return nil, fmt.Errorf("could not get holidays secret from Secret Manager: %w", err)
	}

	if secret.Payload == nil || secret.Payload.Data == nil {
		return nil, errors.New("could not find holidays secret value in Secret Manager")
	}

	return secret.Payload.Data, nil
}

func (s *GCPSecretSource) Close() error { return s.SecretManager.Close() }

func (s *GCPSecretSource) String() string { return schemeGCPSM + s.VersionName }

// AzureKeyVaultSource reads holidays from an Azure Key Vault secret.
type AzureKeyVaultSource struct {
	KeyVault   ifaces.AzureKeyVault
	VaultURL   string
	SecretName string
}

// azureKeyVaultClient wraps the Azure Key Vault SDK client to implement the AzureKeyVault interface.
type azureKeyVaultClient struct {
	client *azsecrets.Client
}

func (c *azureKeyVaultClient) GetSecret(ctx context.Context, secretName string) (azsecrets.GetSecretResponse, error) {
	return c.client.GetSecret(ctx, secretName, "", nil)
}

func newAzureKeyVaultSource(location string) (*AzureKeyVaultSource, error) {
	vaultURL, secretName, err := ParseKeyVaultLocation(location)
	if err != nil {
		return nil, err
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("could not create Azure credential: %w", err)
	}

	kvClient, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create Azure Key Vault client: %w", err)
	}

	return &AzureKeyVaultSource{
		KeyVault:   &azureKeyVaultClient{client: kvClient},
		VaultURL:   vaultURL,
		SecretName: secretName,
	}, nil
}

// ParseKeyVaultLocation splits a Key Vault location into the vault URL and the
// secret name. Supported formats:
//  1. Full URL: https://{vault-name}.vault.azure.net/secrets/{secret-name}
//  2. Vault/secret: azkv://{vault-name}/{secret-name}
func ParseKeyVaultLocation(location string) (vaultURL, secretName string, err error) {
	if isKeyVaultURL(location) {
		parts := strings.SplitN(location, "/secrets/", 2)
		if len(parts) != 2 || parts[1] == "" {
			return "", "", fmt.Errorf("invalid Key Vault URL format: %s (expected https://{vault}.vault.azure.net/secrets/{secret})", location)
		}

		return parts[0], strings.TrimSuffix(parts[1], "/"), nil
	}

	parts := strings.SplitN(strings.TrimPrefix(location, schemeAzKV), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid Key Vault location: %s (expected azkv://{vault}/{secret})", location)
	}

	return fmt.Sprintf("https://%s.vault.azure.net", parts[0]), parts[1], nil
}

func isKeyVaultURL(location string) bool {
	return strings.HasPrefix(location, "https://") && strings.Contains(location, ".vault.azure.net")
}

func (s *AzureKeyVaultSource) Fetch(ctx context.Context) ([]byte, error) {
	secret, err := s.KeyVault.GetSecret(ctx, s.SecretName)
	if err != nil {
		return nil, fmt.Errorf("could not get holidays secret from Key Vault: %w", err)
	}

	if secret.Value == nil {
		return nil, errors.New("could not find holidays secret value in Key Vault")
	}

	return []byte(*secret.Value), nil
}

func (s *AzureKeyVaultSource) Close() error { return nil }

func (s *AzureKeyVaultSource) String() string { return s.VaultURL + "/secrets/" + s.SecretName }
