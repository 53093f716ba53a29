package types

import "github.com/google/uuid"

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest represents the request body for changing a password
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
}

// IngredientLine is one (ingredient id, amount) pair of a recipe request.
type IngredientLine struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1,max=1000000"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image is a base64 data URI.
type CreateRecipeRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Text        string           `json:"text" validate:"required,max=20000"`
	CookingTime int              `json:"cooking_time" validate:"min=1,max=10080"`
	Image       string           `json:"image"`
	Tags        []uint           `json:"tags" validate:"dive,required"`
	Ingredients []IngredientLine `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeRequest represents a partial recipe update. A nil field is
// left unchanged; Tags replaces the tag set, Ingredients adds lines.
type UpdateRecipeRequest struct {
	Name        *string           `json:"name,omitempty"`
	Text        *string           `json:"text,omitempty"`
	CookingTime *int              `json:"cooking_time,omitempty"`
	Image       *string           `json:"image,omitempty"`
	Tags        *[]uint           `json:"tags,omitempty"`
	Ingredients *[]IngredientLine `json:"ingredients,omitempty"`
}

// RecipeFilter selects recipes for listing. Favorited and InCart only apply
// when a viewer is given.
type RecipeFilter struct {
	AuthorID  *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
}
