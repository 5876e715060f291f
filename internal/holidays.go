package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
)

// Spreadsheet exports often start with a UTF-8 byte order mark.
const byteOrderMark = "\ufeff"

// ParseHolidays reads holidays in CSV form: one record per line with the date
// (YYYY-MM-DD) in the first field. Other fields, blank lines, lines starting
// with '#' and a leading "date" header are ignored.
func ParseHolidays(r io.Reader) ([]civil.Date, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []civil.Date

	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("could not read holidays: %w", err)
		}

		field := record[0]
		if first {
			field = strings.TrimPrefix(field, byteOrderMark)
		}
		field = strings.TrimSpace(field)

		if first && strings.EqualFold(field, "date") {
			continue
		}

		date, err := civil.ParseDate(field)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("invalid holiday %q on line %d: expected YYYY-MM-DD", field, line)
		}

		out = append(out, date)
	}

	return out, nil
}
