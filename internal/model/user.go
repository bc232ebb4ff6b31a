package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered portfolio owner. Its id is the tenant key of every
// Project and Skill.
type User struct {
	bun.BaseModel `bun:"table:portfolio_users,alias:u"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Email           string    `bun:"email,notnull,unique"`
	Name            string    `bun:"name,notnull"`
	FirstName       string    `bun:"first_name"`
	LastName        string    `bun:"last_name"`
	PasswordHash    string    `bun:"password_hash,notnull"`
	Bio             string    `bun:"bio"`
	ProfileImageURL string    `bun:"profile_image_url"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
