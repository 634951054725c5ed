package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Format names reported in LoadError and logs.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

// SupportedExtensions lists the file name suffixes the loader accepts.
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat returns the format selected by the file name's suffix.
// The comparison ignores case, so "DATA.CSV" is delimited text.
func DetectFormat(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

// IsSupportedFile reports whether fileName carries an accepted suffix.
func IsSupportedFile(fileName string) bool {
	_, err := DetectFormat(fileName)
	return err == nil
}

// Load parses an uploaded payload into a Table.
//
// A .csv suffix selects delimited-text parsing; .xlsx and .xls select
// spreadsheet parsing of the first sheet. In both cases the first row is
// the header. Column and row order follow the source exactly.
// Any failure is returned as a *LoadError and no table is produced.
func Load(data []byte, fileName string) (*Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, &LoadError{FileName: fileName, Err: err}
	}

	var t *Table
	if format == FormatCSV {
		t, err = loadCSV(data)
	} else {
		t, format, err = loadSpreadsheet(data, format)
	}
	if err != nil {
		return nil, &LoadError{FileName: fileName, Format: format, Err: err}
	}
	return t, nil
}

// LoadReader reads at most limit bytes from r and parses them with Load.
// A limit <= 0 disables the size check.
func LoadReader(r io.Reader, fileName string, limit int64) (*Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, &LoadError{FileName: fileName, Err: err}
	}

	data, err := io.ReadAll(WrapUpload(r, limit))
	if err != nil {
		return nil, &LoadError{FileName: fileName, Format: format, Err: err}
	}
	return Load(data, fileName)
}

// loadCSV parses comma-separated text with a header row.
func loadCSV(data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("encoding error: file is not valid UTF-8")
	}

	r := csv.NewReader(NewBOMSkippingReader(bytes.NewReader(data)))
	r.FieldsPerRecord = -1

	var header []string
	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if header == nil {
			header = rec
			continue
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("invalid csv: expected %d fields in line %d, saw %d",
				len(header), line, len(rec))
		}
		records = append(records, rec)
	}

	if header == nil {
		return nil, ErrEmptyFile
	}
	return buildTable(header, records), nil
}

// loadSpreadsheet parses the first sheet of a workbook. The container is
// sniffed from the content, so a .xls name holding an xlsx file still loads.
// Returns the format that was actually parsed.
func loadSpreadsheet(data []byte, format string) (*Table, string, error) {
	var rows [][]string
	var err error

	switch {
	case len(bytes.TrimSpace(data)) == 0:
		return nil, format, ErrEmptyFile
	case bytes.HasPrefix(data, zipMagic):
		format = FormatXLSX
		rows, err = readXLSX(data)
	case bytes.HasPrefix(data, ole2Magic):
		format = FormatXLS
		rows, err = readXLS(data)
	default:
		return nil, format, errors.New("invalid spreadsheet: unrecognized file content")
	}
	if err != nil {
		return nil, format, err
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, format, ErrEmptyFile
	}

	header := rows[0]
	records := rows[1:]

	// Cells beyond the header get unnamed columns rather than being dropped.
	width := len(header)
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	if width > len(header) {
		header = append(append([]string{}, header...), make([]string, width-len(header))...)
	}

	return buildTable(header, records), format, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("invalid spreadsheet: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// sheetRow returns nil for a row the sheet holds no record of. The reader
// dereferences a missing row instead of reporting it.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// dropEmptyRows removes spreadsheet rows whose cells are all blank.
func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		if !isEmptyRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// buildTable converts raw records into a Table. Short rows are padded
// with missing values.
func buildTable(header []string, records [][]string) *Table {
	columns := NormalizeHeader(header)

	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(columns))
		for j := range columns {
			if j < len(rec) {
				row[j] = ParseValue(rec[j])
			} else {
				row[j] = Value{Kind: KindMissing}
			}
		}
		rows[i] = row
	}

	return &Table{
		Columns: columns,
		Kinds:   InferKinds(rows, len(columns)),
		Rows:    rows,
	}
}

// NormalizeHeader makes header names unique and non-empty.
//
// Blank names become "Unnamed: <position>". Repeated names get a numeric
// suffix: the second "Name" becomes "Name.1", the third "Name.2", skipping
// any name an earlier column already took.
func NormalizeHeader(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	taken := make(map[string]bool, len(names))
	next := make(map[string]int)
	for i, base := range names {
		col := base
		if taken[col] {
			n := max(next[base], 1)
			for taken[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			col = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}
		taken[col] = true
		names[i] = col
	}
	return names
}
