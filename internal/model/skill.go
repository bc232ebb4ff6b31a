package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Skill levels accepted by Validate.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// Skill is a named proficiency. Lists are ordered by Name.
type Skill struct {
	bun.BaseModel `bun:"table:skills,alias:s" json:"-"`
	Owned

	Name  string `bun:"name,notnull" json:"name"`
	Level string `bun:"level,notnull" json:"level"`
}

// Validate implements validation.Validatable.
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&s.Level, validation.Required,
			validation.In(LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert)),
	)
}

func (Skill) OrderColumn() string { return "name" }
