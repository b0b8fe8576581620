package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

// 1x1 transparent PNG
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type fixture struct {
	t       *testing.T
	ctx     context.Context
	db      *gorm.DB
	recipes *service.RecipeService
	images  *service.LocalImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	images := service.NewLocalImageStore(t.TempDir(), "/media")
	return &fixture{
		t:       t,
		ctx:     context.Background(),
		db:      db,
		recipes: service.NewRecipeService(db, images, logger.Discard()),
		images:  images,
	}
}

func (f *fixture) user(username string) models.User {
	f.t.Helper()
	u := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Test",
		PasswordHash: "x",
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) ingredient(name, unit string) models.Ingredient {
	f.t.Helper()
	i := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(f.t, f.db.Create(&i).Error)
	return i
}

func (f *fixture) tag(name, color string) models.Tag {
	f.t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: name}
	require.NoError(f.t, f.db.Create(&tag).Error)
	return tag
}

func (f *fixture) recipe(author models.User, name string, lines []types.IngredientAmount, tags ...models.Tag) *service.RecipeDetails {
	f.t.Helper()
	d, err := f.recipes.CreateRecipe(f.ctx, author.ID, recipeRequest(name, lines, tags...))
	require.NoError(f.t, err)
	return d
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func recipeRequest(name string, lines []types.IngredientAmount, tags ...models.Tag) types.RecipeRequest {
	cookingTime := 30
	ids := make([]uint, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return types.RecipeRequest{
		Name:        name,
		Text:        "Mix and cook.",
		CookingTime: &cookingTime,
		Image:       pngDataURI,
		Ingredients: lines,
		Tags:        ids,
	}
}

func line(i models.Ingredient, amount int) types.IngredientAmount {
	return types.IngredientAmount{ID: i.ID, Amount: amount}
}
