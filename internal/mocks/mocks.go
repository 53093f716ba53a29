// Package mocks holds testify mocks of the service interfaces, for handler
// tests that should not touch a database.
package mocks

import "github.com/pageza/foodgram/backend/internal/service"

var (
	_ service.IAuthService     = (*MockAuthService)(nil)
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IRelationService = (*MockRelationService)(nil)
	_ service.IShoppingService = (*MockShoppingService)(nil)
)
