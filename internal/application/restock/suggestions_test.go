package restock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func stockView(productID, name string, quantity, minimum int64) entity.StockView {
	return entity.StockView{
		StockEntry:  entity.StockEntry{ID: "stock-" + productID, ProductID: productID, Quantity: quantity, Warning: quantity < minimum},
		ProductName: name, Unit: "caja", Minimum: minimum, ProductStatus: entity.ProductAvailable,
	}
}

func TestSuggestions(t *testing.T) {
	uc, db := newEnv()
	productC := "00000000-0000-0000-0000-00000000000c"
	db.addProduct(productC, "Arandela")
	db.views = []entity.StockView{
		stockView(productA, "Tornillo", 2, 10),  // déficit 80 %, pero ya tiene solicitud
		stockView(productB, "Tuerca", 1, 4),     // déficit 75 %
		stockView(productC, "Arandela", 0, 3),   // déficit 100 %
		stockView("sin-alerta", "Clavo", 50, 5), // no entra
	}
	createA(t, uc)

	list, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, productC, list[0].ProductID)
	assert.Equal(t, int64(5), list[0].IdealStock, "ceil(3 × 1.5)")
	assert.Equal(t, int64(5), list[0].SuggestedQty)
	assert.True(t, list[0].DeficitPct.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, productB, list[1].ProductID)
	assert.Equal(t, int64(6), list[1].IdealStock)
	assert.Equal(t, int64(5), list[1].SuggestedQty)
	assert.True(t, list[1].DeficitPct.Equal(decimal.NewFromInt(75)))

	assert.Equal(t, productA, list[2].ProductID, "con solicitud abierta va al final")
	assert.True(t, list[2].OpenRequest)
	assert.Equal(t, int64(13), list[2].SuggestedQty)
	assert.Equal(t, 3, list[2].Priority)
}

func TestSuggestions_Empty(t *testing.T) {
	uc, _ := newEnv()
	list, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSuggestions_OpenRequestsUnavailable(t *testing.T) {
	uc, db := newEnv()
	db.views = []entity.StockView{stockView(productA, "Tornillo", 1, 2)}
	db.openErr = errors.New("timeout")

	list, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].OpenRequest)
	assert.Equal(t, int64(2), list[0].SuggestedQty)
}
