// Package reference accumulates the identifier table produced during a run and
// renders it as the advisory header file stored next to the numbered tracks.
package reference

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"sdtrack/internal/fileutil"
)

// DefaultName is the reserved file name of the header on the target medium.
const DefaultName = "9999.H"

// Row maps one identifier to the index of the track it names. Folder and File
// hold the original names for the comment.
type Row struct {
	Identifier string
	Index      int
	Folder     string
	File       string
}

// Table is an append-only, insertion-ordered list of rows.
type Table struct {
	rows []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds row to the end of the table and returns it.
func (t *Table) Append(row Row) Row {
	t.rows = append(t.rows, row)
	return row
}

// Rows returns a copy of the rows in insertion order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Line renders a row as a #define statement. The index is unpadded here,
// unlike the four-digit target file name.
func Line(row Row) string {
	return fmt.Sprintf("#define %s\t\t%d /* %s/%s */", row.Identifier, row.Index, row.Folder, row.File)
}

// WriteTo writes every row as a newline-terminated line.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, row := range t.rows {
		n, err := bw.WriteString(Line(row) + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// String returns the rendered header contents.
func (t *Table) String() string {
	var b strings.Builder
	_, _ = t.WriteTo(&b)
	return b.String()
}

// Save writes the table to dir/name, replacing any previous file.
func (t *Table) Save(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	path, err := fileutil.WriteFileAtomic(dir, name, []byte(t.String()))
	if err != nil {
		return "", fmt.Errorf("write reference file: %w", err)
	}
	return path, nil
}
