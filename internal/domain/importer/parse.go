// Package importer turns pasted delimited text into a batch of new services
// of one primary type, resolving linked_service columns by value.
package importer

import (
	"strconv"
	"strings"
)

// DefaultSeparator splits cells when the user does not pick one.
const DefaultSeparator = "||"

// Table is parsed input. Every line is data: the header is synthesized.
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse splits input into non-empty lines and each line into cells.
// The header has one "Column N" entry per cell of the first line.
func Parse(input, separator string) (Table, error) {
	if separator == "" {
		return Table{}, ErrEmptySeparator
	}

	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, separator)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyInput
	}

	header := make([]string, len(rows[0]))
	for i := range header {
		header[i] = "Column " + strconv.Itoa(i+1)
	}
	return Table{Header: header, Rows: rows}, nil
}

// Cell returns the trimmed value at row, col or "" when the row is shorter.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
