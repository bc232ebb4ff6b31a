package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// Project is a portfolio entry. Lists are ordered by Title.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p" json:"-"`
	Owned

	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
	ImageURL    string `bun:"image_url" json:"imageUrl"`
}

// Validate implements validation.Validatable.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
		validation.Field(&p.ImageURL, validation.Length(0, 500), is.URL),
	)
}

// OrderColumn is the natural key lists are sorted by.
func (Project) OrderColumn() string { return "title" }
