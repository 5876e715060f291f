package internal_test

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacelift-io/workdayscalr/internal"
)

func TestParseHolidays(t *testing.T) {
	t.Run("Reads one date per line", func(t *testing.T) {
		dates, err := internal.ParseHolidays(strings.NewReader("2024-01-01\n2024-04-01\n"))
		require.NoError(t, err)
		assert.Equal(t, []civil.Date{date(2024, time.January, 1), date(2024, time.April, 1)}, dates)
	})

	t.Run("Skips the header, comments, blank lines and extra columns", func(t *testing.T) {
		input := strings.Join([]string{
			"date,name",
			"# national holidays",
			"2024-01-01,New Year",
			"",
			"  2024-12-25 , Christmas, fixed",
		}, "\n")

		dates, err := internal.ParseHolidays(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []civil.Date{date(2024, time.January, 1), date(2024, time.December, 25)}, dates)
	})

	t.Run("Ignores a leading byte order mark", func(t *testing.T) {
		for _, input := range []string{"\ufeffdate,name\n2024-04-01,x\n", "\ufeff2024-04-01\n"} {
			dates, err := internal.ParseHolidays(strings.NewReader(input))
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, []civil.Date{date(2024, time.April, 1)}, dates)
		}
	})

	t.Run("Accepts an empty document", func(t *testing.T) {
		dates, err := internal.ParseHolidays(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, dates)
	})

	t.Run("Reports the line of a malformed date", func(t *testing.T) {
		_, err := internal.ParseHolidays(strings.NewReader("2024-01-01\n2024-02-30\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid holiday "2024-02-30" on line 2`)
	})

	t.Run("Only skips a header on the first line", func(t *testing.T) {
		_, err := internal.ParseHolidays(strings.NewReader("2024-01-01\ndate\n"))
		require.Error(t, err)
	})
}
