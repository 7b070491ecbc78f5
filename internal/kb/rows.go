package kb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is a single cleaned CSV record keyed by column name.
type Row map[string]string

// ReadRows reads a CSV file into cleaned rows. Column names are
// stripped of a leading byte-order marker and surrounding whitespace,
// values are trimmed, and a missing value becomes an empty string.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parseRows(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func parseRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, missing cells become ""

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, h := range header {
		header[i] = cleanHeader(h)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cleanHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
}

// require returns the value of a column, erroring when the column is
// absent entirely. Present-but-empty values are allowed; the structured
// templates render them as empty strings, matching the row cleaning
// contract.
func (r Row) require(source, field string, index int) (string, error) {
	v, ok := r[field]
	if !ok {
		return "", fmt.Errorf("%s row %d: missing required column %q", source, index, field)
	}
	return v, nil
}
