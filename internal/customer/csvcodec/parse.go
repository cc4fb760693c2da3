package csvcodec

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	dErrors "titling/pkg/domain-errors"
)

// IDColumn is the mandatory key column of update files.
const IDColumn = "id"

// Table is a parsed update file. Each row maps a header to its trimmed cell.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Parse reads CSV text for a bulk update. A leading BOM is accepted, CRLF is
// normalized and blank lines are dropped. Rows shorter than the header row
// read missing cells as empty.
func Parse(text string) (Table, error) {
	text = strings.TrimPrefix(text, BOM)
	if strings.TrimSpace(text) == "" {
		return Table{}, dErrors.New(dErrors.CodeValidation, "El archivo CSV está vacío.")
	}

	r := csv.NewReader(strings.NewReader(strings.ReplaceAll(text, "\r\n", "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, dErrors.Wrap(err, dErrors.CodeValidation, "El archivo CSV no tiene un formato válido.")
		}
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return Table{}, dErrors.New(dErrors.CodeValidation, "El archivo CSV está vacío.")
	}

	headers := make([]string, len(records[0]))
	hasID := false
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
		hasID = hasID || headers[i] == IDColumn
	}
	if len(records) < 2 {
		return Table{}, dErrors.New(dErrors.CodeValidation, "El archivo CSV no contiene filas de datos.")
	}
	if !hasID {
		return Table{}, dErrors.New(dErrors.CodeValidation, "El archivo CSV debe contener una columna 'id'.")
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
