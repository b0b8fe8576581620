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

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag id=%d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return &tag, nil
}

// Import inserts the given tags. A tag clashing with an existing name,
// color or slug is skipped.
func (s *TagService) Import(ctx context.Context, items []types.TagInput) (created, skipped int, err error) {
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.Slug = strings.TrimSpace(item.Slug)
		item.Color = normalizeColor(item.Color)
		if err := validateStruct(item); err != nil {
			return created, skipped, fmt.Errorf("tag #%d: %w", i+1, err)
		}

		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Tag{Name: item.Name, Color: item.Color, Slug: item.Slug})
		if res.Error != nil {
			return created, skipped, fmt.Errorf("failed to import tag %q: %w", item.Slug, res.Error)
		}
		if res.RowsAffected == 0 {
			skipped++
		} else {
			created++
		}
	}
	return created, skipped, nil
}

// normalizeColor adds the leading # and upper-cases the digits.
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c != "" && !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return c
}
