package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CollectionService keeps a per-user set of recipes. It backs both the
// favorites list and the shopping cart.
type CollectionService struct {
	db       *gorm.DB
	name     string
	newEntry func(userID, recipeID uint) interface{}
}

func NewFavoriteService(db *gorm.DB) *CollectionService {
	return &CollectionService{
		db:   db,
		name: "favorites",
		newEntry: func(userID, recipeID uint) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartService(db *gorm.DB) *CollectionService {
	return &CollectionService{
		db:   db,
		name: "shopping cart",
		newEntry: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add puts recipeID into the user's collection and returns the recipe.
func (s *CollectionService) Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe id=%d", ErrNotFound, recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	var n int64
	if err := db.Model(s.newEntry(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", s.name, err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: recipe id=%d is already in %s", ErrAlreadyExists, recipeID, s.name)
	}

	if err := db.Omit("User", "Recipe").Create(s.newEntry(userID, recipeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: recipe id=%d is already in %s", ErrAlreadyExists, recipeID, s.name)
		}
		return nil, fmt.Errorf("failed to add to %s: %w", s.name, err)
	}
	return &recipe, nil
}

// Remove takes recipeID out of the user's collection.
func (s *CollectionService) Remove(ctx context.Context, userID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(s.newEntry(0, 0))
	if res.Error != nil {
		return fmt.Errorf("failed to remove from %s: %w", s.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe id=%d is not in %s", ErrNotFound, recipeID, s.name)
	}
	return nil
}

// Contains returns which of recipeIDs are in the user's collection.
func (s *CollectionService) Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return memberRecipes(s.db.WithContext(ctx), s.newEntry(0, 0), userID, recipeIDs)
}

// memberRecipes returns which of recipeIDs have a row of model for userID.
func memberRecipes(db *gorm.DB, model interface{}, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := db.Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe membership: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
