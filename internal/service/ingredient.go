package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients whose name starts with prefix, ignoring case,
// ordered by id. An empty prefix returns the whole catalogue.
func (s *IngredientService) List(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("id")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ingredient id=%d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

// Import inserts the given ingredients, skipping (name, unit) pairs that
// already exist.
func (s *IngredientService) Import(ctx context.Context, items []types.IngredientInput) (created, skipped int, err error) {
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.MeasurementUnit = strings.TrimSpace(item.MeasurementUnit)
		if err := validateStruct(item); err != nil {
			return created, skipped, fmt.Errorf("ingredient #%d: %w", i+1, err)
		}

		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit})
		if res.Error != nil {
			return created, skipped, fmt.Errorf("failed to import ingredient %q: %w", item.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			skipped++
		} else {
			created++
		}
	}
	return created, skipped, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
