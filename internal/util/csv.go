package util

import (
	"encoding/csv"
	"io"
	"strings"
)

// CSVTable holds a parsed CSV document as header names plus row maps keyed by header.
type CSVTable struct {
	Headers []string
	Rows    []map[string]string
}

// ParseCSV reads a CSV document into a table. The first line is the header;
// blank lines are skipped and short rows are padded with empty strings.
func ParseCSV(r io.Reader) (*CSVTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &CSVTable{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &CSVTable{Headers: headers}
	for _, record := range records[1:] {
		empty := true
		for _, v := range record {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// RenderCSV writes rows back out with the given header order, escaping as needed.
func RenderCSV(w io.Writer, headers []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
