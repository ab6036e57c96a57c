package hdb

import (
	"github.com/astrokit/astrofile/pkg/aerr"
)

// Table is the row/column payload shared by the ascii and binary table
// block kinds. Cells are held as strings; the binary kind differs only
// in its on-disk encoding, which the codec layer owns.
type Table struct {
	columns []string
	rows    [][]string
}

func NewTable(columns []string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

func (t *Table) ColumnCount() int { return len(t.columns) }
func (t *Table) RowCount() int    { return len(t.rows) }

func (t *Table) ColumnName(i int) (string, error) {
	if i < 0 || i >= len(t.columns) {
		return "", aerr.OutOfRangef("column %d of %d", i, len(t.columns))
	}
	return t.columns[i], nil
}

func (t *Table) AppendRow(cells []string) error {
	if len(cells) != len(t.columns) {
		return aerr.InvalidArgf("row has %d cells, table has %d columns",
			len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]string(nil), cells...))
	return nil
}

func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, aerr.OutOfRangef("row %d of %d", i, len(t.rows))
	}
	return append([]string(nil), t.rows[i]...), nil
}

func (t *Table) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", aerr.OutOfRangef("row %d of %d", row, len(t.rows))
	}
	if col < 0 || col >= len(t.columns) {
		return "", aerr.OutOfRangef("column %d of %d", col, len(t.columns))
	}
	return t.rows[row][col], nil
}

func (t *Table) Copy() *Table {
	out := NewTable(t.columns)
	for _, r := range t.rows {
		out.rows = append(out.rows, append([]string(nil), r...))
	}
	return out
}

// AsciiTableBlock is a table block with human-readable cell encoding.
type AsciiTableBlock struct {
	blockBase
	table *Table
}

func NewAsciiTableBlock(name string, columns []string) *AsciiTableBlock {
	return &AsciiTableBlock{blockBase: newBlockBase(name), table: NewTable(columns)}
}

func (b *AsciiTableBlock) Type() BlockType { return BlockAsciiTable }
func (b *AsciiTableBlock) Table() *Table   { return b.table }

func (b *AsciiTableBlock) Copy() Block {
	return &AsciiTableBlock{blockBase: b.copyBase(), table: b.table.Copy()}
}

// BinTableBlock is a table block with packed cell encoding.
type BinTableBlock struct {
	blockBase
	table *Table
}

func NewBinTableBlock(name string, columns []string) *BinTableBlock {
	return &BinTableBlock{blockBase: newBlockBase(name), table: NewTable(columns)}
}

func (b *BinTableBlock) Type() BlockType { return BlockBinTable }
func (b *BinTableBlock) Table() *Table   { return b.table }

func (b *BinTableBlock) Copy() Block {
	return &BinTableBlock{blockBase: b.copyBase(), table: b.table.Copy()}
}
