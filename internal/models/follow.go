package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge of the social graph: FollowerID follows FolloweeID
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

// All returns every model managed by the schema, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Recipe{},
		&RecipeLike{},
		&RecipeSave{},
		&RecipeRating{},
		&Follow{},
	}
}
