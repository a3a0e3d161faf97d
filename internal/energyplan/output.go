package energyplan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var (
	ErrKeyNotFound     = errors.New("key not found in result file")
	ErrMalformedResult = errors.New("malformed result file")
	ErrSectionNotFound = errors.New("section not found in result file")
)

const (
	annualSeriesMarker = "TOTAL FOR ONE YEAR"
	fuelSectionMarker  = "ANNUAL FUEL"
)

// Document is one parsed EnergyPLAN ASCII result file. Files are
// Windows-1252 encoded, tab separated, with comma decimal marks.
type Document struct {
	path  string
	cells [][]string

	seriesColumns []string
	seriesRows    map[string][]string
	fuelColumns   []string
	fuelRows      map[string][]string
}

// ParseResult reads and indexes a result file.
func ParseResult(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := ReadResult(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// ReadResult decodes and indexes a Windows-1252 result stream.
func ReadResult(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(charmap.Windows1252.NewDecoder().Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	doc := &Document{
		seriesRows: make(map[string][]string),
		fuelRows:   make(map[string][]string),
	}
	for scanner.Scan() {
		cells := strings.Split(scanner.Text(), "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		doc.cells = append(doc.cells, cells)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(doc.cells) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedResult)
	}

	doc.indexSeries()
	doc.indexFuel()
	return doc, nil
}

// Objective returns the scalar value for key: the cell immediately to the
// right of the first cell containing key.
func (d *Document) Objective(key string) (float64, error) {
	for _, row := range d.cells {
		for j, cell := range row {
			if cell == "" || !strings.Contains(cell, key) {
				continue
			}
			if j+1 >= len(row) {
				return 0, fmt.Errorf("%w: no value cell after %q in %s", ErrMalformedResult, key, d.path)
			}
			v, err := parseNumber(row[j+1])
			if err != nil {
				return 0, fmt.Errorf("%w: value for %q in %s: %v", ErrMalformedResult, key, d.path, err)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrKeyNotFound, key, d.path)
}

// Objectives resolves several scalar keys at once, in order.
func (d *Document) Objectives(keys ...string) ([]float64, error) {
	values := make([]float64, len(keys))
	for i, key := range keys {
		v, err := d.Objective(key)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Annual returns a value from the "TOTAL FOR ONE YEAR" row of the
// annual/monthly/hourly series table, addressed by combined column header
// (e.g. "PV Electr.").
func (d *Document) Annual(column string) (float64, error) {
	return d.Series(annualRowLabel(d.seriesRows), column)
}

// Series returns a value from the series table by row label and combined
// column header. Row labels include the annual total row, month names and the
// "Annual Average"/"Annual Maximum"/"Annual Minimum" summary rows.
func (d *Document) Series(rowLabel, column string) (float64, error) {
	if len(d.seriesColumns) == 0 {
		return 0, fmt.Errorf("%w: series table (%s)", ErrSectionNotFound, d.path)
	}
	row, ok := d.seriesRows[rowLabel]
	if !ok {
		return 0, fmt.Errorf("%w: series row %q in %s", ErrKeyNotFound, rowLabel, d.path)
	}
	for i, name := range d.seriesColumns {
		if name != column {
			continue
		}
		if i >= len(row) {
			break
		}
		v, err := parseNumber(row[i])
		if err != nil {
			return 0, fmt.Errorf("%w: series %q/%q in %s: %v", ErrMalformedResult, rowLabel, column, d.path, err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: series column %q in %s", ErrKeyNotFound, column, d.path)
}

// FuelTotal returns the TOTAL column of the annual fuel consumption table
// for the given row label (e.g. "Biomass Consumption").
func (d *Document) FuelTotal(rowLabel string) (float64, error) {
	if len(d.fuelColumns) == 0 {
		return 0, fmt.Errorf("%w: fuel table (%s)", ErrSectionNotFound, d.path)
	}
	row, ok := d.fuelRows[rowLabel]
	if !ok {
		return 0, fmt.Errorf("%w: fuel row %q in %s", ErrKeyNotFound, rowLabel, d.path)
	}
	col := 0
	for i, name := range d.fuelColumns {
		if strings.EqualFold(name, "TOTAL") {
			col = i
			break
		}
	}
	if col >= len(row) {
		return 0, fmt.Errorf("%w: fuel row %q too short in %s", ErrMalformedResult, rowLabel, d.path)
	}
	v, err := parseNumber(row[col])
	if err != nil {
		return 0, fmt.Errorf("%w: fuel %q in %s: %v", ErrMalformedResult, rowLabel, d.path, err)
	}
	return v, nil
}

// indexSeries locates the annual/monthly/hourly table: the data block starts
// at the "TOTAL FOR ONE YEAR" row and the two nearest non-empty lines above
// it hold the split column headers.
func (d *Document) indexSeries() {
	start := -1
	for i, row := range d.cells {
		if len(row) > 1 && strings.HasPrefix(row[0], annualSeriesMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	var headers [][]string
	for i := start - 1; i >= 0 && len(headers) < 2; i-- {
		if countNonEmpty(d.cells[i]) > 1 && !isSeparatorRow(d.cells[i]) {
			headers = append(headers, d.cells[i])
		}
	}
	if len(headers) < 2 {
		return
	}
	// headers[1] is the upper header line, headers[0] the lower one.
	upper, lower := headers[1], headers[0]
	width := len(upper)
	if len(lower) > width {
		width = len(lower)
	}
	columns := make([]string, 0, width)
	for i := 1; i < width; i++ {
		columns = append(columns, combineHeader(cellAt(upper, i), cellAt(lower, i)))
	}
	d.seriesColumns = columns

	for _, row := range d.cells[start:] {
		if countNonEmpty(row) < 2 || row[0] == "" {
			continue
		}
		if _, exists := d.seriesRows[row[0]]; exists {
			continue
		}
		d.seriesRows[row[0]] = row[1:]
	}
}

// indexFuel locates the annual fuel consumption table: a header line whose
// first cell starts with "ANNUAL FUEL", column names to its right, one row
// per fuel account below until the block ends.
func (d *Document) indexFuel() {
	start := -1
	for i, row := range d.cells {
		if len(row) > 1 && strings.HasPrefix(row[0], fuelSectionMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	header := d.cells[start]
	columns := make([]string, 0, len(header)-1)
	for _, cell := range header[1:] {
		columns = append(columns, strings.TrimSuffix(cell, ":"))
	}
	d.fuelColumns = columns

	for _, row := range d.cells[start+1:] {
		if countNonEmpty(row) < 2 || row[0] == "" {
			break
		}
		d.fuelRows[row[0]] = row[1:]
	}
}

func annualRowLabel(rows map[string][]string) string {
	for label := range rows {
		if strings.HasPrefix(label, annualSeriesMarker) {
			return label
		}
	}
	return annualSeriesMarker
}

func combineHeader(upper, lower string) string {
	name := strings.TrimSpace(strings.TrimSpace(upper) + " " + strings.TrimSpace(lower))
	return name
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// isSeparatorRow reports rows made only of ruling characters.
func isSeparatorRow(row []string) bool {
	seen := false
	for _, cell := range row {
		if cell == "" {
			continue
		}
		seen = true
		if strings.Trim(cell, "-=") != "" {
			return false
		}
	}
	return seen
}

func countNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if cell != "" {
			n++
		}
	}
	return n
}

// parseNumber parses an EnergyPLAN numeric cell, accepting the comma decimal
// mark the executable emits under European locales.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, errors.New("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}
