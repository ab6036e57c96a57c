package hdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrofile/pkg/aerr"
)

func TestTableRows(t *testing.T) {
	b := NewAsciiTableBlock("catalogue", []string{"NAME", "RA", "DEC"})
	tbl := b.Table()

	require.NoError(t, tbl.AppendRow([]string{"star1", "120.5", "45.2"}))
	require.NoError(t, tbl.AppendRow([]string{"star2", "121.0", "44.8"}))
	assert.Equal(t, 2, tbl.RowCount())

	cell, err := tbl.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "star2", cell)

	err = tbl.AppendRow([]string{"short"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, aerr.ErrInvalidArgument))

	_, err = tbl.Cell(5, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, aerr.ErrOutOfRange))
}

func TestTableCopyIndependent(t *testing.T) {
	b := NewBinTableBlock("data", []string{"A"})
	require.NoError(t, b.Table().AppendRow([]string{"1"}))

	clone := b.Copy().(*BinTableBlock)
	require.NoError(t, clone.Table().AppendRow([]string{"2"}))

	assert.Equal(t, 1, b.Table().RowCount())
	assert.Equal(t, 2, clone.Table().RowCount())
	assert.Equal(t, BlockBinTable, clone.Type())
}
