package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// ParseDataset parses a whole CSV payload into a Dataset. Rows shorter than
// the header are padded implicitly (missing cells read as ""); ERDDAP-style
// unit rows under the header survive parsing and fall out later when their
// timestamp cell fails normalization.
func ParseDataset(payload []byte) (Dataset, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return Dataset{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	ds := Dataset{Headers: headers}
	for _, rec := range rows[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
