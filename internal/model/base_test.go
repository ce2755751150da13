package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}
	p.Normalize(15)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PerPage)

	p = Pagination{Page: -3, PerPage: 500}
	p.Normalize(15)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)

	p = Pagination{Page: 4, PerPage: 25}
	p.Normalize(15)
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, 75, p.Offset())
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(Pagination{Page: 2, PerPage: 10}, 35)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 4, meta.LastPage)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, int64(35), meta.Total)

	meta = NewPageMeta(Pagination{Page: 1, PerPage: 10}, 0)
	assert.Equal(t, 1, meta.LastPage)

	meta = NewPageMeta(Pagination{Page: 1, PerPage: 10}, 30)
	assert.Equal(t, 3, meta.LastPage)
}

func TestStringArrayRoundTrip(t *testing.T) {
	arr := StringArray{"diabetes", "hypertension"}

	value, err := arr.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["diabetes","hypertension"]`, string(value.([]byte)))

	var scanned StringArray
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, arr, scanned)
}

func TestStringArrayNil(t *testing.T) {
	var arr StringArray
	value, err := arr.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var scanned StringArray
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestStringArrayScanString(t *testing.T) {
	var scanned StringArray
	require.NoError(t, scanned.Scan(`["a","b"]`))
	assert.Equal(t, StringArray{"a", "b"}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestCartItemRecalculate(t *testing.T) {
	item := CartItem{Quantity: 3, UnitPrice: 4.5}
	item.Recalculate()
	assert.Equal(t, 13.5, item.TotalPrice)
}

func TestMedicineInStock(t *testing.T) {
	m := Medicine{Stock: 5}
	assert.True(t, m.InStock(5))
	assert.False(t, m.InStock(6))
}
