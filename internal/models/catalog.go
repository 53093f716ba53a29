package models

// Ingredient is shared reference data; recipes point at it through
// RecipeIngredient lines and never delete it.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	MeasurementUnit string `gorm:"size:50;not null" json:"measurement_unit"`
}

// Tag is shared reference data. Slug is the external identifier used by
// recipe filters.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Slug  string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Color string `gorm:"size:50" json:"color"`
}
