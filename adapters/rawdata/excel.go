package rawdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// firstSheet opens a workbook and returns the name of its first sheet.
func firstSheet(path string) (*excelize.File, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", fmt.Errorf("workbook %s has no sheets", path)
	}
	return f, sheets[0], nil
}

func excelHeader(path string) ([]string, error) {
	f, sheet, err := firstSheet(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

// readExcel streams the first sheet; the first row holds the variable names.
func readExcel(ctx context.Context, path string, sink *sink) error {
	f, sheet, err := firstSheet(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.Rows(sheet)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		header []string
		values [][]float64
		wanted []int
		n      int
	)
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return err
		}
		if header == nil {
			header = cells
			values = make([][]float64, len(header))
			for j, name := range header {
				if _, ok := sink.want[strings.ToUpper(strings.TrimSpace(name))]; ok {
					wanted = append(wanted, j)
				}
			}
			continue
		}
		if n%DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for _, j := range wanted {
			v := parseCell("")
			if j < len(cells) {
				v = parseCell(cells[j])
			}
			values[j] = append(values[j], v)
		}
		n++
	}
	if err := rows.Error(); err != nil {
		return err
	}

	sink.addRows(n)
	for _, j := range wanted {
		col := values[j]
		sink.offer(strings.TrimSpace(header[j]), func() []float64 { return col })
	}
	return nil
}
