package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	images    IImageService
	favorites *Ledger[models.Favorite]
	cart      *Ledger[models.CartItem]
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images IImageService) *RecipeService {
	return &RecipeService{
		db:        db,
		images:    images,
		favorites: NewFavoriteLedger(db),
		cart:      NewCartLedger(db),
	}
}

// CreateRecipe validates req and stores the recipe, its ingredient lines and
// its tag links in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := uniqueLines(req.Ingredients); err != nil {
		return nil, err
	}
	if err := uniqueTags(req.Tags); err != nil {
		return nil, err
	}

	var imageKey string
	if req.Image != "" {
		key, err := s.images.Save(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imageKey,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNameFree(tx, authorID, req.Name, uuid.Nil); err != nil {
			return err
		}
		if err := checkIngredients(tx, req.Ingredients); err != nil {
			return err
		}
		if err := checkTags(tx, req.Tags); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateName
			}
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		lines := make([]models.RecipeIngredient, 0, len(req.Ingredients))
		for _, in := range req.Ingredients {
			lines = append(lines, models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: in.ID,
				Amount:       in.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create ingredient lines: %w", err)
		}

		return linkTags(tx, recipe.ID, req.Tags)
	})
	if err != nil {
		s.images.Discard(ctx, imageKey)
		return nil, err
	}

	log.WithFields(log.Fields{"recipe_id": recipe.ID, "author_id": authorID}).Info("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies a partial update. Absent scalars are kept, a present
// tag list replaces the tag set, and present ingredient lines are merged in:
// a line identical to an existing one is skipped, a line for an ingredient
// the recipe already uses overwrites that line's amount. An amount change
// never adds a second line for the same ingredient, because (recipe,
// ingredient) is unique.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	recipe, err := s.owned(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}

	oldImage := recipe.Image
	var newImage string
	if req.Image != nil {
		if *req.Image != "" {
			if newImage, err = s.images.Save(ctx, *req.Image); err != nil {
				return nil, err
			}
		}
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Name != nil && *req.Name != recipe.Name {
			if err := checkNameFree(tx, recipe.AuthorID, *req.Name, recipe.ID); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateName
				}
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}

		if req.Tags != nil {
			if err := checkTags(tx, *req.Tags); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
				return fmt.Errorf("failed to clear tags: %w", err)
			}
			if err := linkTags(tx, recipe.ID, *req.Tags); err != nil {
				return err
			}
		}

		if req.Ingredients != nil {
			if err := checkIngredients(tx, *req.Ingredients); err != nil {
				return err
			}
			if err := mergeLines(tx, recipe.ID, *req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, newImage)
		return nil, err
	}

	if req.Image != nil {
		s.images.Discard(ctx, oldImage)
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe loads a recipe with its author, tags and ingredient lines
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withDetails(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe together with its lines, tag links,
// favorites and cart entries. Only the author may delete it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := s.owned(ctx, actorID, recipeID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.Favorite{}, &models.CartItem{}, &models.RecipeTag{}, &models.RecipeIngredient{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete recipe links: %w", err)
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return err
	}

	s.images.Discard(ctx, recipe.Image)
	log.WithField("recipe_id", recipe.ID).Info("recipe deleted")
	return nil
}

// ListRecipes returns one page of recipes matching filter, newest first,
// and the total number of matches. Favorited and InCart are ignored when
// viewer is nil.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, limit, offset int) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if viewer != nil && filter.Favorited {
		query = query.Where("recipes.id IN (?)", s.favorites.Subquery(s.db, *viewer))
	}
	if viewer != nil && filter.InCart {
		query = query.Where("recipes.id IN (?)", s.cart.Subquery(s.db, *viewer))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withDetails(query).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// RecipesByAuthor returns up to limit of the author's newest recipes, all
// of them when limit is negative, plus the author's total recipe count.
func (s *RecipeService) RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	var recipes []models.Recipe
	if err := query.Order("pub_date DESC, id DESC").Limit(limit).Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list author recipes: %w", err)
	}
	return recipes, total, nil
}

// ImageURL resolves a stored image key to its public URL.
func (s *RecipeService) ImageURL(key string) string {
	return s.images.URL(key)
}

func (s *RecipeService) owned(ctx context.Context, actorID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC, tags.id ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

// checkNameFree fails with ErrDuplicateName when the author already has a
// recipe called name other than except.
func checkNameFree(tx *gorm.DB, authorID uuid.UUID, name string, except uuid.UUID) error {
	var count int64
	err := tx.Model(&models.Recipe{}).
		Where("author_id = ? AND name = ? AND id <> ?", authorID, name, except).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check recipe name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}

func checkIngredients(tx *gorm.DB, lines []types.IngredientLine) error {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return checkIDs(tx, &models.Ingredient{}, "ingredient", ids)
}

func checkTags(tx *gorm.DB, ids []uint) error {
	return checkIDs(tx, &models.Tag{}, "tag", ids)
}

// checkIDs returns ErrNotFound naming the first id in ids with no row.
func checkIDs(tx *gorm.DB, model interface{}, kind string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("failed to look up %ss: %w", kind, err)
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
		}
	}
	return nil
}

func linkTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link tags: %w", err)
	}
	return nil
}

func mergeLines(tx *gorm.DB, recipeID uuid.UUID, lines []types.IngredientLine) error {
	var existing []models.RecipeIngredient
	if err := tx.Where("recipe_id = ?", recipeID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load ingredient lines: %w", err)
	}
	byIngredient := make(map[uint]models.RecipeIngredient, len(existing))
	for _, l := range existing {
		byIngredient[l.IngredientID] = l
	}

	for _, in := range lines {
		current, ok := byIngredient[in.ID]
		switch {
		case !ok:
			line := models.RecipeIngredient{RecipeID: recipeID, IngredientID: in.ID, Amount: in.Amount}
			if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
				return fmt.Errorf("failed to add ingredient line: %w", err)
			}
		case current.Amount != in.Amount:
			err := tx.Model(&models.RecipeIngredient{}).Where("id = ?", current.ID).Update("amount", in.Amount).Error
			if err != nil {
				return fmt.Errorf("failed to update ingredient line: %w", err)
			}
		}
	}
	return nil
}

func uniqueLines(lines []types.IngredientLine) error {
	seen := make(map[uint]bool, len(lines))
	for _, l := range lines {
		if seen[l.ID] {
			return invalid("ingredients", "ingredient %d is listed more than once", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

func uniqueTags(ids []uint) error {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid("tags", "tag %d is listed more than once", id)
		}
		seen[id] = true
	}
	return nil
}

func validateUpdate(req *types.UpdateRecipeRequest) error {
	if req.Name != nil {
		if err := validateVar("name", *req.Name, "required,max=200"); err != nil {
			return err
		}
	}
	if req.Text != nil {
		if err := validateVar("text", *req.Text, "required,max=20000"); err != nil {
			return err
		}
	}
	if req.CookingTime != nil {
		if err := validateVar("cooking_time", *req.CookingTime, "min=1,max=10080"); err != nil {
			return err
		}
	}
	if req.Tags != nil {
		if err := validateVar("tags", *req.Tags, "dive,required"); err != nil {
			return err
		}
		if err := uniqueTags(*req.Tags); err != nil {
			return err
		}
	}
	if req.Ingredients != nil {
		for i := range *req.Ingredients {
			if err := validateStruct(&(*req.Ingredients)[i]); err != nil {
				return err
			}
		}
		if err := uniqueLines(*req.Ingredients); err != nil {
			return err
		}
	}
	return nil
}
