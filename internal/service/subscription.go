package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// SubscriptionDetails is a followed author with a preview of their recipes.
type SubscriptionDetails struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes subscriberID follow authorID. recipesLimit bounds the
// preview; a value below 1 returns every recipe.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uint, recipesLimit int) (*SubscriptionDetails, error) {
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user id=%d", ErrNotFound, authorID)
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if subscriberID == authorID {
		return nil, ErrSelfSubscription
	}

	var n int64
	if err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: already subscribed to user id=%d", ErrAlreadyExists, authorID)
	}

	sub := &models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := db.Omit("Subscriber", "Author").Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already subscribed to user id=%d", ErrAlreadyExists, authorID)
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return s.details(db, author, recipesLimit)
}

// Unsubscribe removes the subscription or returns ErrNotFound.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uint) error {
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: not subscribed to user id=%d", ErrNotFound, authorID)
	}
	return nil
}

// List returns the authors subscriberID follows, ordered by author id.
func (s *SubscriptionService) List(ctx context.Context, subscriberID uint, page types.PageRequest, recipesLimit int) (*Page[SubscriptionDetails], error) {
	db := s.db.WithContext(ctx)
	page = page.Normalize()

	followed := func(q *gorm.DB) *gorm.DB {
		return q.Where("id IN (?)", db.Model(&models.Subscription{}).
			Select("author_id").Where("subscriber_id = ?", subscriberID))
	}

	var count int64
	if err := db.Model(&models.User{}).Scopes(followed).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	if err := db.Scopes(followed).Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out := &Page[SubscriptionDetails]{Count: count, Items: make([]SubscriptionDetails, 0, len(authors))}
	for _, a := range authors {
		d, err := s.details(db, a, recipesLimit)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *d)
	}
	return out, nil
}

func (s *SubscriptionService) details(db *gorm.DB, author models.User, recipesLimit int) (*SubscriptionDetails, error) {
	d := &SubscriptionDetails{Author: author}
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&d.RecipesCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	q := db.Where("author_id = ?", author.ID).Order("name").Order("id")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	if err := q.Find(&d.Recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	return d, nil
}

// subscribedAuthors returns which of authorIDs viewerID follows.
func subscribedAuthors(db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if viewerID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
