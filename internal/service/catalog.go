package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogService serves the read-only ingredient and tag reference data.
type CatalogService struct {
	db *gorm.DB
}

var _ ICatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// FilterIngredients returns ingredients whose name contains substr,
// case-insensitively, ordered by name. An empty substr returns everything.
// substr is matched literally: % and _ are not wildcards.
func (s *CatalogService) FilterIngredients(ctx context.Context, substr string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name ASC, id ASC")
	substr = strings.TrimSpace(substr)
	// SQLite only folds ASCII case, so non-ASCII searches are folded here.
	foldInGo := substr != "" && s.db.Dialector.Name() == "sqlite" && !isASCII(substr)
	if substr != "" && !foldInGo {
		pattern := "%" + escapeLike(strings.ToLower(substr)) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where(`name ILIKE ? ESCAPE '\'`, pattern)
		} else {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
		}
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to filter ingredients: %w", err)
	}
	if foldInGo {
		needle := strings.ToLower(substr)
		matched := ingredients[:0]
		for _, ingredient := range ingredients {
			if strings.Contains(strings.ToLower(ingredient.Name), needle) {
				matched = append(matched, ingredient)
			}
		}
		ingredients = matched
	}
	return ingredients, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// GetIngredient looks an ingredient up by id
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &ingredient, nil
}

// GetIngredientByName looks an ingredient up by its exact name
func (s *CatalogService) GetIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return &ingredient, nil
}

// ListTags returns all tags ordered by name
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTag looks a tag up by id
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &tag, nil
}
