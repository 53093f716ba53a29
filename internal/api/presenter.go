package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// presenter turns models into responses, filling in the flags that depend
// on who is asking.
type presenter struct {
	recipes   service.IRecipeService
	relations service.IRelationService
}

func (p *presenter) users(ctx context.Context, viewer *uuid.UUID, users []models.User) ([]types.UserResponse, error) {
	following := map[uuid.UUID]bool{}
	if viewer != nil {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		var err error
		if following, err = p.relations.Following(ctx, *viewer, ids); err != nil {
			return nil, err
		}
	}

	out := make([]types.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u, following[u.ID]))
	}
	return out, nil
}

func (p *presenter) user(ctx context.Context, viewer *uuid.UUID, user models.User) (types.UserResponse, error) {
	out, err := p.users(ctx, viewer, []models.User{user})
	if err != nil {
		return types.UserResponse{}, err
	}
	return out[0], nil
}

func userResponse(u models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (p *presenter) recipeList(ctx context.Context, viewer *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	favorited, inCart := map[uuid.UUID]bool{}, map[uuid.UUID]bool{}
	authors := make([]models.User, 0, len(recipes))
	if viewer != nil {
		ids := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
		}
		var err error
		if favorited, inCart, err = p.relations.RecipeFlags(ctx, *viewer, ids); err != nil {
			return nil, err
		}
	}
	for _, r := range recipes {
		authors = append(authors, r.Author)
	}
	authorViews, err := p.users(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i, r := range recipes {
		resp := types.RecipeResponse{
			ID:               r.ID,
			Tags:             tagResponses(r.Tags),
			Author:           authorViews[i],
			Ingredients:      make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            p.recipes.ImageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		for _, line := range r.Ingredients {
			resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientResponse{
				ID:              line.Ingredient.ID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		out = append(out, resp)
	}
	return out, nil
}

func (p *presenter) recipe(ctx context.Context, viewer *uuid.UUID, recipe models.Recipe) (types.RecipeResponse, error) {
	out, err := p.recipeList(ctx, viewer, []models.Recipe{recipe})
	if err != nil {
		return types.RecipeResponse{}, err
	}
	return out[0], nil
}

func (p *presenter) shortRecipes(recipes []models.Recipe) []types.ShortRecipe {
	out := make([]types.ShortRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, p.shortRecipe(r))
	}
	return out
}

func (p *presenter) shortRecipe(r models.Recipe) types.ShortRecipe {
	return types.ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.recipes.ImageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// subscription renders a followed author with up to recipesLimit of their
// newest recipes (all when negative) and their total recipe count.
func (p *presenter) subscription(ctx context.Context, author models.User, recipesLimit int) (types.SubscriptionResponse, error) {
	recipes, total, err := p.recipes.RecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return types.SubscriptionResponse{}, err
	}
	return types.SubscriptionResponse{
		UserResponse: userResponse(author, true),
		Recipes:      p.shortRecipes(recipes),
		RecipesCount: total,
	}, nil
}

func tagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, types.TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color})
	}
	return out
}

func ingredientResponses(ingredients []models.Ingredient) []types.IngredientResponse {
	out := make([]types.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, types.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit})
	}
	return out
}
