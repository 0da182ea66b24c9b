package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Name         string      `gorm:"size:50;not null" json:"name"`
	Avatar       string      `gorm:"size:500" json:"avatar"`
	Preferences  Preferences `gorm:"type:jsonb" json:"preferences"`
	IsActive     bool        `gorm:"not null" json:"is_active"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Preferences holds a user's dietary and cooking preferences
type Preferences struct {
	DietaryRestrictions []DietaryRestriction `json:"dietary_restrictions"`
	FavoriteCuisines    []Cuisine            `json:"favorite_cuisines"`
	CookingSkill        CookingSkill         `json:"cooking_skill"`
}

// Normalize fills defaults and replaces nil slices so the column always holds arrays
func (p *Preferences) Normalize() {
	if p.DietaryRestrictions == nil {
		p.DietaryRestrictions = []DietaryRestriction{}
	}
	if p.FavoriteCuisines == nil {
		p.FavoriteCuisines = []Cuisine{}
	}
	if p.CookingSkill == "" {
		p.CookingSkill = SkillBeginner
	}
}

func (p Preferences) Value() (driver.Value, error) {
	p.Normalize()
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		*p = Preferences{}
		p.Normalize()
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bytes, p); err != nil {
		return err
	}
	p.Normalize()
	return nil
}
