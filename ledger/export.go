package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// SheetName is the worksheet the spreadsheet export writes to.
const SheetName = "Ledger"

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType is the MIME type for downloads in format f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv"
	}
}

type ExportOptions struct {
	Pretty bool // indent JSON output
}

// Export writes entries in format f. The output is a straight serialisation
// of the rows; Import reads it back unchanged.
func Export(w io.Writer, f Format, entries []Entry, opts ExportOptions) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatXLSX:
		return writeXLSX(w, entries)
	case FormatJSON:
		return writeJSON(w, entries, opts.Pretty)
	}
	return fmt.Errorf("unsupported export format: %q", f)
}

func Import(r io.Reader, f Format) ([]Entry, error) {
	switch f {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	case FormatJSON:
		var out []Entry
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json records: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported export format: %q", f)
}

func writeJSON(w io.Writer, entries []Entry, indent bool) error {
	if entries == nil {
		entries = []Entry{}
	}
	for i, e := range entries {
		if !e.Finite() {
			return fmt.Errorf("row %d: %w", i+1, ErrNonFinite)
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if indent {
		data = pretty.Pretty(data)
	}
	_, err = w.Write(data)
	return err
}

func writeXLSX(w io.Writer, entries []Entry) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := x.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			e.Date.UTC().Format(DateLayout),
			string(e.Pair),
			string(e.Direction),
			e.EntryPrice,
			e.SL,
			e.TP,
			e.ATR,
			e.SLMultiplier,
			e.TPMultiplier,
			e.EMAFast,
			e.EMASlow,
			e.RSI,
			string(e.Pattern),
		}
		if err := x.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return x.Write(w)
}

func readXLSX(r io.Reader) ([]Entry, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer x.Close()

	sheet := SheetName
	if idx, _ := x.GetSheetIndex(sheet); idx < 0 {
		sheet = x.GetSheetName(0)
	}

	rows, err := x.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return decodeRows(rows[0], rows[1:])
}
