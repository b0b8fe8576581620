package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserDetails is a user as seen by a viewer.
type UserDetails struct {
	User         models.User
	IsSubscribed bool
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account. Email comparison is case-insensitive.
func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	verr := &ValidationError{}
	var n int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(req.Email)).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if n > 0 {
		verr.Add("email", "a user with that email already exists")
	}
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if n > 0 {
		verr.Add("username", "a user with that username already exists")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user %s", ErrAlreadyExists, req.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Get returns user id as seen by viewerID (0 for anonymous).
func (s *UserService) Get(ctx context.Context, viewerID, id uint) (*UserDetails, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user id=%d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	subscribed, err := subscribedAuthors(s.db.WithContext(ctx), viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	return &UserDetails{User: user, IsSubscribed: subscribed[user.ID]}, nil
}

// List returns users ordered by id.
func (s *UserService) List(ctx context.Context, viewerID uint, page types.PageRequest) (*Page[UserDetails], error) {
	db := s.db.WithContext(ctx)
	page = page.Normalize()

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := subscribedAuthors(db, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := &Page[UserDetails]{Count: count, Items: make([]UserDetails, len(users))}
	for i, u := range users {
		out.Items[i] = UserDetails{User: u, IsSubscribed: subscribed[u.ID]}
	}
	return out, nil
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uint, req types.SetPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user id=%d", ErrNotFound, userID)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return newValidationError("current_password", "invalid password")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
