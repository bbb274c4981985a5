// Package csv renders comma-separated files as an aligned text table.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// missing is rendered for empty or absent cells.
const missing = "NaN"

// columnGap separates adjacent columns.
const columnGap = "  "

// Parser handles CSV files. The first record is the header.
type Parser struct{}

// New creates a new CSV parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".csv"}
}

// Parse renders the file as a table: a header line, then one line per
// record prefixed by its zero-based row index. Data columns are
// right-aligned; the index column is left-aligned.
func (p *Parser) Parse(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	header, rows, err := readRecords(raw.Content)
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return fmt.Sprintf("Empty DataFrame\nColumns: [%s]\nIndex: []", strings.Join(header, ", ")), nil
	}

	return render(header, rows), nil
}

func readRecords(content []byte) ([]string, [][]string, error) {
	r := stdcsv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: no columns to parse", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, nil, fmt.Errorf("%w: line %d: expected %d fields, saw %d",
				domain.ErrInvalidInput, line, len(header), len(record))
		}
		row := make([]string, len(header))
		for i := range row {
			row[i] = missing
			if i < len(record) && record[i] != "" {
				row[i] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func render(header []string, rows [][]string) string {
	indexWidth := len(strconv.Itoa(len(rows) - 1))

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeLine := func(index string, cells []string) {
		b.WriteString(runewidth.FillRight(index, indexWidth))
		for i, cell := range cells {
			b.WriteString(columnGap)
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		}
	}

	writeLine("", header)
	for n, row := range rows {
		b.WriteString("\n")
		writeLine(strconv.Itoa(n), row)
	}
	return b.String()
}
