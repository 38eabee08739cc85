package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads an uploaded report buffer once into a raw 2-D grid of cell
// strings, with no header assumption. It tries xlsx first, then legacy xls,
// then delimited text with separator sniffing. Failures here are structural:
// nothing downstream runs without a grid.
func ReadGrid(data []byte, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" || ext == ".xlsx" || ext == ".xlsm" {
		if rows, err := readXLSX(data); err == nil {
			return rows, nil
		} else if ext != "" {
			return nil, err
		}
	}
	if ext == "" || ext == ".xls" {
		if rows, err := readXLS(data); err == nil {
			return rows, nil
		} else if ext != "" {
			return nil, err
		}
	}
	return readCSV(data)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet %q is empty", sheet)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls has no sheets")
	}
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		vals := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			vals = append(vals, row.Col(j))
		}
		rows = append(rows, vals)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xls sheet is empty")
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffSeparator(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited text: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("delimited file is empty")
	}
	return rows, nil
}

// sniffSeparator picks the delimiter with the most hits in the leading
// chunk. Counting beyond the first line matters: some exports open with a
// banner row that carries no delimiter at all.
func sniffSeparator(data []byte) rune {
	chunk := data
	if len(chunk) > 4096 {
		chunk = chunk[:4096]
	}
	sep := ','
	best := bytes.Count(chunk, []byte{','})
	if n := bytes.Count(chunk, []byte{';'}); n > best {
		sep, best = ';', n
	}
	if n := bytes.Count(chunk, []byte{'\t'}); n > best {
		sep = '\t'
	}
	return sep
}
