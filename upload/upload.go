// Package upload reads an arbitrary tabular file and shows it as is.
// Nothing is validated beyond the file parsing as a table.
package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindJSON Kind = "json"
)

var ErrNotTabular = errors.New("not tabular data")

// Table is a header row plus data rows. Rows may be ragged.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width is the widest row, header included.
func (t Table) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".json":
		return KindJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %q", ErrNotTabular, filepath.Ext(path))
}

// Read parses the file at path by its extension.
func Read(path string) (Table, error) {
	k, err := KindFromPath(path)
	if err != nil {
		return Table{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f, k)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func Parse(r io.Reader, k Kind) (Table, error) {
	switch k {
	case KindCSV:
		return parseCSV(r)
	case KindXLSX:
		return parseXLSX(r)
	case KindJSON:
		return parseJSON(r)
	}
	return Table{}, fmt.Errorf("%w: unsupported kind %q", ErrNotTabular, k)
}

func parseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	recs, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
	}
	return fromRecords(recs)
}

func parseXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%w: workbook has no sheets", ErrNotTabular)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
	}
	return fromRecords(rows)
}

func fromRecords(recs [][]string) (Table, error) {
	if len(recs) == 0 {
		return Table{}, fmt.Errorf("%w: empty file", ErrNotTabular)
	}
	return Table{Header: recs[0], Rows: recs[1:]}, nil
}

// parseJSON accepts an array of flat objects. Columns appear in the order
// their keys are first seen.
func parseJSON(r io.Reader) (Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return Table{}, err
	}

	var (
		header []string
		index  = map[string]int{}
		rows   []map[string]string
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return Table{}, err
		}
		row := map[string]string{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
			}
			key, _ := tok.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
			}
			if _, ok := index[key]; !ok {
				index[key] = len(header)
				header = append(header, key)
			}
			row[key] = cell(raw)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return Table{}, err
		}
		rows = append(rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return Table{}, err
	}
	if len(header) == 0 {
		return Table{}, fmt.Errorf("%w: no columns", ErrNotTabular)
	}

	t := Table{Header: header, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		out := make([]string, len(header))
		for k, v := range row {
			out[index[k]] = v
		}
		t.Rows[i] = out
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotTabular, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrNotTabular, want, tok)
	}
	return nil
}

// cell shows strings unquoted, null as blank, anything else as written.
func cell(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
