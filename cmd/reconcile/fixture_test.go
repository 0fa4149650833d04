package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/stock-sync/internal/models"
)

const fixtureJSON = `[
	{"id": "1", "product_name": "HP Victus Gaming i7 16GB 512GB SSD", "brand_name": "HP", "category": "informatica", "subcategory": "notebooks", "selling_price": 9500000, "stock": 2},
	{"id": "2", "product_name": "Samsung Galaxy Tab S9", "brand_name": "Samsung", "category": "informatica", "subcategory": "tablets", "selling_price": 6000000, "stock": null}
]`

func TestCatalogFixture_ListProductsInScope(t *testing.T) {
	fixture, err := parseCatalogFixture([]byte(fixtureJSON))
	require.NoError(t, err)

	all, err := fixture.ListProductsInScope(context.Background(), models.ProductScope{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	notebooks, err := fixture.ListProductsInScope(context.Background(), models.ProductScope{Subcategory: "Notebooks"})
	require.NoError(t, err)
	require.Len(t, notebooks, 1)
	assert.Equal(t, "HP", notebooks[0].Brand)
	require.NotNil(t, notebooks[0].Stock)
	assert.Nil(t, all[1].Stock)
}

func TestCatalogFixture_IsReadOnly(t *testing.T) {
	fixture, err := parseCatalogFixture([]byte(fixtureJSON))
	require.NoError(t, err)

	_, _, err = fixture.SetProductsStock(context.Background(), []string{"1"}, 0)
	assert.ErrorIs(t, err, errReadOnlyCatalog)

	_, err = fixture.ApplyPricingChanges(context.Background(), nil)
	assert.ErrorIs(t, err, errReadOnlyCatalog)
}

func TestParseCatalogFixture_InvalidJSON(t *testing.T) {
	_, err := parseCatalogFixture([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}
