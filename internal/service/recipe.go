package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	maxRecipeNameLength = 200
	// amounts and cooking times are stored as small integers
	maxSmallInt = 32767
)

// RecipeDetails is a fully loaded recipe annotated for a viewer.
type RecipeDetails struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	log    *logrus.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore, log *logrus.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		log:    log,
	}
}

// CreateRecipe validates req, uploads the image and stores the recipe with
// its ingredient lines and tags in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest) (*RecipeDetails, error) {
	db := s.db.WithContext(ctx)

	verr := &ValidationError{}
	img := decodeRecipeImage(verr, req.Image, true)
	checkRecipeFields(verr, req)
	if err := checkReferences(db, verr, req); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	key := NewImageKey(img)
	if err := s.images.Save(ctx, key, img); err != nil {
		return nil, err
	}

	var recipeID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        strings.TrimSpace(req.Name),
			Image:       key,
			Text:        req.Text,
			CookingTime: *req.CookingTime,
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		recipeID = recipe.ID
		return replaceLines(tx, recipe.ID, req)
	})
	if err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}

	return s.GetRecipe(ctx, authorID, recipeID)
}

// UpdateRecipe replaces the recipe fields, ingredient lines and tags. Only the
// author may update; the image is kept when req.Image is empty.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uint, req types.RecipeRequest) (*RecipeDetails, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadOwnedRecipe(db, actorID, recipeID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	img := decodeRecipeImage(verr, req.Image, false)
	checkRecipeFields(verr, req)
	if err := checkReferences(db, verr, req); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var newKey string
	if img != nil {
		newKey = NewImageKey(img)
		if err := s.images.Save(ctx, newKey, img); err != nil {
			return nil, err
		}
	}

	var oldKey string
	err := db.Transaction(func(tx *gorm.DB) error {
		recipe, err := loadOwnedRecipe(tx, actorID, recipeID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         strings.TrimSpace(req.Name),
			"text":         req.Text,
			"cooking_time": *req.CookingTime,
		}
		if newKey != "" {
			oldKey = recipe.Image
			updates["image"] = newKey
		}

		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return replaceLines(tx, recipe.ID, req)
	})
	if err != nil {
		if newKey != "" {
			s.discardImage(ctx, newKey)
		}
		return nil, err
	}
	if oldKey != "" {
		s.discardImage(ctx, oldKey)
	}

	return s.GetRecipe(ctx, actorID, recipeID)
}

// DeleteRecipe removes the recipe together with its lines, tags and every
// favorite and cart entry that references it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uint) error {
	var key string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := loadOwnedRecipe(tx, actorID, recipeID)
		if err != nil {
			return err
		}
		key = recipe.Image

		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete recipe rows: %w", err)
			}
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.discardImage(ctx, key)
	return nil
}

// GetRecipe loads a recipe as seen by viewerID (0 for anonymous).
func (s *RecipeService) GetRecipe(ctx context.Context, viewerID, id uint) (*RecipeDetails, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.Scopes(withRecipeDetails).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe id=%d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	details, err := annotateRecipes(db, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListRecipes returns a page of recipes ordered by name. Every tag slug in
// the filter must be present on a recipe for it to match.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID uint, f types.RecipeFilter, page types.PageRequest) (*Page[RecipeDetails], error) {
	db := s.db.WithContext(ctx)
	page = page.Normalize()

	if f.AuthorID != 0 {
		var n int64
		if err := db.Model(&models.User{}).Where("id = ?", f.AuthorID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to check author: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: user id=%d", ErrNotFound, f.AuthorID)
		}
	}

	filter := func(q *gorm.DB) *gorm.DB {
		if f.AuthorID != 0 {
			q = q.Where("recipes.author_id = ?", f.AuthorID)
		}
		for _, slug := range uniqueStrings(f.TagSlugs) {
			q = q.Where(`EXISTS (SELECT 1 FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id
				WHERE recipe_tags.recipe_id = recipes.id AND tags.slug = ?)`, slug)
		}
		if f.FavoritedBy != 0 {
			q = q.Where("EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)", f.FavoritedBy)
		}
		if f.InCartOf != 0 {
			q = q.Where(`EXISTS (SELECT 1 FROM shopping_cart_entries
				WHERE shopping_cart_entries.recipe_id = recipes.id AND shopping_cart_entries.user_id = ?)`, f.InCartOf)
		}
		return q
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Scopes(filter).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	if err := db.Scopes(filter, withRecipeDetails).
		Order("recipes.name").Order("recipes.id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	items, err := annotateRecipes(db, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &Page[RecipeDetails]{Items: items, Count: count}, nil
}

func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to delete recipe image")
	}
}

func withRecipeDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.id")
		}).
		Preload("Tags.Tag")
}

func loadOwnedRecipe(tx *gorm.DB, actorID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe id=%d", ErrNotFound, recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func decodeRecipeImage(verr *ValidationError, uri string, required bool) *Image {
	if uri == "" {
		if required {
			verr.Add("image", "cannot be empty")
		}
		return nil
	}
	img, err := DecodeDataURI(uri)
	if err != nil {
		verr.Add("image", err.Error())
		return nil
	}
	return img
}

// checkRecipeFields applies the rules that need no database access.
func checkRecipeFields(verr *ValidationError, req types.RecipeRequest) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		verr.Add("name", "cannot be empty")
	case utf8.RuneCountInString(name) > maxRecipeNameLength:
		verr.Add("name", fmt.Sprintf("must be at most %d characters", maxRecipeNameLength))
	}
	if strings.TrimSpace(req.Text) == "" {
		verr.Add("text", "cannot be empty")
	}

	switch {
	case req.CookingTime == nil:
		verr.Add("cooking_time", "cannot be empty")
	case *req.CookingTime < 1:
		verr.Add("cooking_time", "must be at least 1")
	case *req.CookingTime > maxSmallInt:
		verr.Add("cooking_time", fmt.Sprintf("must be at most %d", maxSmallInt))
	}

	if len(req.Ingredients) == 0 {
		verr.Add("ingredients", "cannot be empty")
	}
	seenIngredients := make(map[uint]bool, len(req.Ingredients))
	for _, line := range req.Ingredients {
		switch {
		case line.ID == 0:
			verr.Add("ingredients", "every line needs an ingredient id")
		case seenIngredients[line.ID]:
			verr.Add("ingredients", fmt.Sprintf("id=%d is listed more than once", line.ID))
		case line.Amount < 1:
			verr.Add("ingredients", fmt.Sprintf("amount of id=%d must be at least 1", line.ID))
		case line.Amount > maxSmallInt:
			verr.Add("ingredients", fmt.Sprintf("amount of id=%d must be at most %d", line.ID, maxSmallInt))
		}
		seenIngredients[line.ID] = true
	}

	if len(req.Tags) == 0 {
		verr.Add("tags", "cannot be empty")
	}
	seenTags := make(map[uint]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			verr.Add("tags", fmt.Sprintf("id=%d is listed more than once", id))
		}
		seenTags[id] = true
	}
}

// checkReferences reports the first ingredient and tag id that does not exist.
func checkReferences(tx *gorm.DB, verr *ValidationError, req types.RecipeRequest) error {
	if _, failed := verr.Fields["ingredients"]; !failed && len(req.Ingredients) > 0 {
		ids := make([]uint, len(req.Ingredients))
		for i, line := range req.Ingredients {
			ids[i] = line.ID
		}
		missing, err := missingIDs(tx, &models.Ingredient{}, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			verr.Add("ingredients", fmt.Sprintf("id=%d not found", missing[0]))
		}
	}

	if _, failed := verr.Fields["tags"]; !failed && len(req.Tags) > 0 {
		missing, err := missingIDs(tx, &models.Tag{}, req.Tags)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			verr.Add("tags", fmt.Sprintf("id=%d not found", missing[0]))
		}
	}
	return nil
}

// missingIDs returns the ids without a row, in input order.
func missingIDs(tx *gorm.DB, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ids: %w", err)
	}
	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// replaceLines drops the recipe's ingredient lines and tags and inserts the
// submitted ones.
func replaceLines(tx *gorm.DB, recipeID uint, req types.RecipeRequest) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	lines := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, in := range req.Ingredients {
		lines[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: in.ID, Amount: in.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newValidationError("ingredients", "an ingredient is listed more than once")
		}
		return fmt.Errorf("failed to store ingredients: %w", err)
	}

	tags := make([]models.RecipeTag, len(req.Tags))
	for i, id := range req.Tags {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newValidationError("tags", "a tag is listed more than once")
		}
		return fmt.Errorf("failed to store tags: %w", err)
	}
	return nil
}

// annotateRecipes attaches the viewer's favorite, cart and subscription state.
func annotateRecipes(db *gorm.DB, viewerID uint, recipes []models.Recipe) ([]RecipeDetails, error) {
	out := make([]RecipeDetails, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	ids := make([]uint, len(recipes))
	authors := make([]uint, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		authors[i] = r.AuthorID
	}

	favorited, err := memberRecipes(db, &models.Favorite{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := memberRecipes(db, &models.ShoppingCartEntry{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedAuthors(db, viewerID, authors)
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		out[i] = RecipeDetails{
			Recipe:           r,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: subscribed[r.AuthorID],
		}
	}
	return out, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
