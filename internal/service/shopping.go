package service

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"
)

// ShoppingListItem is one consolidated line of the shopping list.
type ShoppingListItem struct {
	Name   string
	Unit   string
	Amount int
}

type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build sums the ingredient amounts of every recipe in the user's cart.
// Lines are grouped by ingredient name; the unit is taken from the first
// occurrence and items keep the order in which names first appear.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var rows []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Order("shopping_cart_entries.id").Order("recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	return Aggregate(rows), nil
}

// Aggregate merges lines with the same name.
func Aggregate(lines []ShoppingListItem) []ShoppingListItem {
	index := make(map[string]int, len(lines))
	items := make([]ShoppingListItem, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.Name]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[line.Name] = len(items)
		items = append(items, line)
	}
	return items
}

// Render writes one "name (unit) — amount" line per item.
func Render(w io.Writer, items []ShoppingListItem) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := fmt.Fprintf(bw, "%s (%s) — %d\n", item.Name, item.Unit, item.Amount); err != nil {
			return err
		}
	}
	return bw.Flush()
}
