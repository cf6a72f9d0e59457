package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ContactRow is one importable contact extracted from a CSV.
type ContactRow struct {
	Email   string
	Name    string
	Company string
}

// ParseResult holds the importable rows and how many rows were dropped
// for a missing or malformed email.
type ParseResult struct {
	Rows    []ContactRow
	Skipped int
}

var ErrNoEmailColumn = errors.New("csv must contain an Email column")

// ParseContacts reads a CSV with a header row. Email, name and company
// columns are recognised by common header spellings (case-insensitive);
// other columns are ignored.
//
// maxRows limits how many data rows are parsed (excluding header).
func ParseContacts(r io.Reader, maxRows int) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv header row is empty")
	}
	if err != nil {
		return nil, err
	}

	fields := make([]field, len(headers))
	hasEmail := false
	for i, h := range headers {
		// strip a UTF-8 BOM left by spreadsheet exports
		fields[i] = classify(strings.TrimPrefix(h, "\ufeff"))
		if fields[i] == fieldEmail {
			hasEmail = true
		}
	}
	if !hasEmail {
		return nil, ErrNoEmailColumn
	}

	if maxRows <= 0 {
		maxRows = 10000
	}

	result := &ParseResult{Rows: make([]ContactRow, 0)}
	for rows := 0; rows < maxRows; rows++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var row ContactRow
		for i, value := range record {
			if i >= len(fields) {
				break
			}
			value = strings.TrimSpace(value)
			switch fields[i] {
			case fieldEmail:
				row.Email = value
			case fieldName:
				row.Name = value
			case fieldCompany:
				row.Company = value
			}
		}

		if row.Email == "" || !ValidEmail(row.Email) {
			result.Skipped++
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
