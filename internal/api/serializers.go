package api

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// serializer converts models into response bodies. imageURL resolves a stored
// image key to the URL handed to clients.
type serializer struct {
	imageURL func(key string) string
}

func (s serializer) user(u models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (s serializer) users(items []service.UserDetails) []types.UserResponse {
	out := make([]types.UserResponse, 0, len(items))
	for _, d := range items {
		out = append(out, s.user(d.User, d.IsSubscribed))
	}
	return out
}

func (s serializer) tag(t models.Tag) types.TagResponse {
	return types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func (s serializer) tags(items []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, 0, len(items))
	for _, t := range items {
		out = append(out, s.tag(t))
	}
	return out
}

func (s serializer) ingredient(i models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (s serializer) ingredients(items []models.Ingredient) []types.IngredientResponse {
	out := make([]types.IngredientResponse, 0, len(items))
	for _, i := range items {
		out = append(out, s.ingredient(i))
	}
	return out
}

func (s serializer) recipe(d service.RecipeDetails) types.RecipeResponse {
	r := d.Recipe
	resp := types.RecipeResponse{
		ID:               r.ID,
		Tags:             make([]types.TagResponse, 0, len(r.Tags)),
		Author:           s.user(r.Author, d.AuthorSubscribed),
		Ingredients:      make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
		IsFavorited:      d.IsFavorited,
		IsInShoppingCart: d.IsInShoppingCart,
		Name:             r.Name,
		Image:            s.imageURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for _, rt := range r.Tags {
		resp.Tags = append(resp.Tags, s.tag(rt.Tag))
	}
	for _, line := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return resp
}

func (s serializer) recipes(items []service.RecipeDetails) []types.RecipeResponse {
	out := make([]types.RecipeResponse, 0, len(items))
	for _, d := range items {
		out = append(out, s.recipe(d))
	}
	return out
}

func (s serializer) recipeShort(r models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.imageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// subscription renders a followed author. The viewer is always subscribed.
func (s serializer) subscription(d service.SubscriptionDetails) types.SubscriptionResponse {
	resp := types.SubscriptionResponse{
		UserResponse: s.user(d.Author, true),
		Recipes:      make([]types.RecipeShortResponse, 0, len(d.Recipes)),
		RecipesCount: d.RecipesCount,
	}
	for _, r := range d.Recipes {
		resp.Recipes = append(resp.Recipes, s.recipeShort(r))
	}
	return resp
}

func (s serializer) subscriptions(items []service.SubscriptionDetails) []types.SubscriptionResponse {
	out := make([]types.SubscriptionResponse, 0, len(items))
	for _, d := range items {
		out = append(out, s.subscription(d))
	}
	return out
}
