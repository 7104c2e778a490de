package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopnad/domain/table"

	"github.com/xuri/excelize/v2"
)

// Format is an output encoding for loaded tables.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv, json, xlsx or table)", s)
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := ParseFormat(ext)
	if err != nil || f == FormatTable {
		return "", fmt.Errorf("cannot infer output format of %s", filepath.Base(path))
	}
	return f, nil
}

// Write encodes tbl to w.
func Write(w io.Writer, tbl *table.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, tbl)
	case FormatJSON:
		return WriteJSON(w, tbl)
	case FormatXLSX:
		return WriteXLSX(w, tbl, "")
	case FormatTable:
		return WriteText(w, tbl)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteFile encodes tbl into path using the format of its extension.
func WriteFile(path string, tbl *table.Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	if err := Write(file, tbl, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes a header row followed by one record per row. Missing
// values are empty cells.
func WriteCSV(w io.Writer, tbl *table.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tbl.Names()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	columns := tbl.Columns()
	record := make([]string, len(columns))
	for i := 0; i < tbl.NumRows(); i++ {
		for j, col := range columns {
			record[j] = col.String(i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes an array of row objects. Missing values are null.
func WriteJSON(w io.Writer, tbl *table.Table) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for i := 0; i < tbl.NumRows(); i++ {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := enc.Encode(orderedRow{tbl: tbl, row: i}); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// orderedRow marshals one row keeping the column order of the table.
type orderedRow struct {
	tbl *table.Table
	row int
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for j, col := range r.tbl.Columns() {
		if j > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(col.Value(r.row))
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(value)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// WriteXLSX streams tbl into a single-sheet workbook.
func WriteXLSX(w io.Writer, tbl *table.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "pnad"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	columns := tbl.Columns()
	header := make([]interface{}, len(columns))
	for j, col := range columns {
		header[j] = col.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	values := make([]interface{}, len(columns))
	for i := 0; i < tbl.NumRows(); i++ {
		for j, col := range columns {
			values[j] = col.Value(i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteText prints an aligned plain-text table for terminals.
func WriteText(w io.Writer, tbl *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	columns := tbl.Columns()
	fmt.Fprintln(tw, strings.Join(tbl.Names(), "\t")+"\t")
	cells := make([]string, len(columns))
	for i := 0; i < tbl.NumRows(); i++ {
		for j, col := range columns {
			cells[j] = textCell(col, i)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func textCell(col *table.Column, i int) string {
	if col.IsMissing(i) {
		return "NaN"
	}
	if col.Type == table.Numeric {
		v := col.Floats[i]
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.4g", v)
	}
	return col.Labels[i]
}
