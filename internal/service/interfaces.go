package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Get(ctx context.Context, viewerID, id uint) (*UserDetails, error)
	List(ctx context.Context, viewerID uint, page types.PageRequest) (*Page[UserDetails], error)
	SetPassword(ctx context.Context, userID uint, req types.SetPasswordRequest) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest) (*RecipeDetails, error)
	GetRecipe(ctx context.Context, viewerID, id uint) (*RecipeDetails, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uint, req types.RecipeRequest) (*RecipeDetails, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uint) error
	ListRecipes(ctx context.Context, viewerID uint, f types.RecipeFilter, page types.PageRequest) (*Page[RecipeDetails], error)
}

// ICollectionService is a per-user recipe set: favorites or shopping cart.
type ICollectionService interface {
	Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uint) error
}

type IShoppingListService interface {
	Build(ctx context.Context, userID uint) ([]ShoppingListItem, error)
}

type ISubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID uint, recipesLimit int) (*SubscriptionDetails, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID uint) error
	List(ctx context.Context, subscriberID uint, page types.PageRequest, recipesLimit int) (*Page[SubscriptionDetails], error)
}

type IIngredientService interface {
	List(ctx context.Context, prefix string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
	Import(ctx context.Context, items []types.IngredientInput) (created, skipped int, err error)
}

type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
	Import(ctx context.Context, items []types.TagInput) (created, skipped int, err error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ ICollectionService   = (*CollectionService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ ITagService          = (*TagService)(nil)
	_ ImageStore           = (*S3ImageStore)(nil)
	_ ImageStore           = (*LocalImageStore)(nil)
	_ TokenStore           = (*RedisTokenStore)(nil)
	_ TokenStore           = (*MemoryTokenStore)(nil)
)
