package service_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestShoppingListSumsSharedIngredients(t *testing.T) {
	f := newFixture(t)
	chef := f.user("chef")
	flour := f.ingredient("Flour", "g")
	egg := f.ingredient("Egg", "pcs")
	milk := f.ingredient("Milk", "ml")
	tag := f.tag("baking", "#FFAA00")

	bread := f.recipe(chef, "Bread", []types.IngredientAmount{line(flour, 200), line(egg, 1)}, tag)
	cake := f.recipe(chef, "Cake", []types.IngredientAmount{line(milk, 250), line(flour, 300)}, tag)
	f.recipe(chef, "Not in cart", []types.IngredientAmount{line(flour, 1000)}, tag)

	cart := service.NewShoppingCartService(f.db)
	_, err := cart.Add(f.ctx, chef.ID, bread.Recipe.ID)
	require.NoError(t, err)
	_, err = cart.Add(f.ctx, chef.ID, cake.Recipe.ID)
	require.NoError(t, err)

	items, err := service.NewShoppingListService(f.db).Build(f.ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, []service.ShoppingListItem{
		{Name: "Flour", Unit: "g", Amount: 500},
		{Name: "Egg", Unit: "pcs", Amount: 1},
		{Name: "Milk", Unit: "ml", Amount: 250},
	}, items)

	var buf bytes.Buffer
	require.NoError(t, service.Render(&buf, items))
	assert.Equal(t, "Flour (g) — 500\nEgg (pcs) — 1\nMilk (ml) — 250\n", buf.String())
}

func TestShoppingListEmptyCart(t *testing.T) {
	f := newFixture(t)
	chef := f.user("chef")

	items, err := service.NewShoppingListService(f.db).Build(f.ctx, chef.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	var buf bytes.Buffer
	require.NoError(t, service.Render(&buf, items))
	assert.Empty(t, buf.String())
}

func TestAggregateKeepsFirstUnit(t *testing.T) {
	items := service.Aggregate([]service.ShoppingListItem{
		{Name: "Salt", Unit: "g", Amount: 5},
		{Name: "Pepper", Unit: "g", Amount: 1},
		{Name: "Salt", Unit: "pinch", Amount: 2},
	})
	assert.Equal(t, []service.ShoppingListItem{
		{Name: "Salt", Unit: "g", Amount: 7},
		{Name: "Pepper", Unit: "g", Amount: 1},
	}, items)
}
