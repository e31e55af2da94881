package models

import (
	"gorm.io/gorm"
)

// DefaultUser is the fallback identity used when a request carries no user
// name. It is tracked like any other user but never appears in rankings.
const DefaultUser = "default"

type User struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null"`
}
