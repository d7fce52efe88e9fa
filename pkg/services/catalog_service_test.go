package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCatalogService_Seeded(t *testing.T) {
	catalog := NewCatalogService(zerolog.Nop())

	products := catalog.List()
	require.Len(t, products, len(SeedProducts()))

	latte, err := catalog.Get("caramel-latte")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", latte.Category)
	assert.InDelta(t, 5.50*0.6, latte.Cost, 1e-9)
	assert.Equal(t, 1000.0, latte.CurrentDemand)

	_, err = catalog.Get("unknown")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestNewProduct(t *testing.T) {
	p := NewProduct("muffin", "Muffin", 3, 0)
	assert.Equal(t, 3.0, p.RecommendedPrice)
	assert.Equal(t, "Other", p.Category)
	assert.InDelta(t, 1.8, p.Cost, 1e-9)
}

func TestCatalogService_Upsert(t *testing.T) {
	catalog := NewCatalogService(zerolog.Nop())

	err := catalog.Upsert(NewProduct("", "No ID", 3, 0))
	assert.ErrorIs(t, err, ErrInvalidProduct)

	err = catalog.Upsert(NewProduct("free", "Free", 0, 0))
	assert.ErrorIs(t, err, ErrInvalidProduct)

	require.NoError(t, catalog.Upsert(NewProduct("bagel", "Bagel", 2.5, 0)))
	list := catalog.List()
	assert.Equal(t, "bagel", list[len(list)-1].ID)
}

func TestCatalogService_ImportCSV(t *testing.T) {
	// BOM付き・日本語ヘッダー
	data := "\xef\xbb\xbf製品ID,製品名,価格,原価\n" +
		"P001,コーヒー,500,\n" +
		"P002,紅茶,abc,100\n" +
		"P003-latte,ラテ,\"1,200\",700\n"

	catalog := NewCatalogService(zerolog.Nop())
	result, err := catalog.Import(strings.NewReader(data), "products.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Imported, 2)

	coffee, err := catalog.Get("P001")
	require.NoError(t, err)
	assert.Equal(t, "コーヒー", coffee.Name)
	assert.Equal(t, 500.0, coffee.CurrentPrice)
	assert.Equal(t, 300.0, coffee.Cost)
	assert.Equal(t, 1000.0, coffee.CurrentDemand)
	assert.Equal(t, "Other", coffee.Category)

	latte, err := catalog.Get("P003-latte")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, latte.CurrentPrice)
	assert.Equal(t, 700.0, latte.Cost)
	assert.Equal(t, "Beverages", latte.Category)
}

func TestCatalogService_ImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"product_id", "product_name", "price", "cost", "demand", "category"},
		{"X1", "Espresso", 3.2, 1.1, 2500, "Coffee"},
		{"X2", "Tea", 2.8, "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	catalog := NewCatalogService(zerolog.Nop())
	result, err := catalog.Import(&buf, "catalog.XLSX")
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)

	espresso, err := catalog.Get("X1")
	require.NoError(t, err)
	assert.Equal(t, 3.2, espresso.CurrentPrice)
	assert.Equal(t, 1.1, espresso.Cost)
	assert.Equal(t, 2500.0, espresso.CurrentDemand)
	assert.Equal(t, "Coffee", espresso.Category)

	tea, err := catalog.Get("X2")
	require.NoError(t, err)
	assert.InDelta(t, 2.8*0.6, tea.Cost, 1e-9)
	assert.Equal(t, 1000.0, tea.CurrentDemand)
}

func TestCatalogService_ImportErrors(t *testing.T) {
	catalog := NewCatalogService(zerolog.Nop())

	testCases := []struct {
		name     string
		data     string
		filename string
	}{
		{"unsupported extension", "id,price\nA,1\n", "products.txt"},
		{"header only", "id,price\n", "products.csv"},
		{"missing price column", "id,name\nA,Apple\n", "products.csv"},
		{"no valid rows", "id,price\nA,free\n", "products.csv"},
		{"broken xlsx", "not a zip", "products.xlsx"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.Import(strings.NewReader(tc.data), tc.filename)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
	assert.Len(t, catalog.List(), len(SeedProducts()), "failed imports must not change the catalog")
}

func TestCatalogService_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,price\nfile-1,From File,9.99\n"), 0o600))

	catalog := NewCatalogService(zerolog.Nop())
	result, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"1,200", 1200, true},
		{"¥980", 980, true},
		{"$4.50", 4.5, true},
		{"300円", 300, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v, ok := parseAmount(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}
