package models

import (
	"time"

	"gorm.io/datatypes"
)

// Filters is the searchable part of a user profile. The external processor
// rewrites it wholesale after analyzing a resume.
type Filters struct {
	Stack           []string `json:"stack"`
	Experience      []string `json:"experience"`
	Keywords        []string `json:"keywords"`
	Location        []string `json:"location"`
	JobType         []string `json:"jobType"`
	ExcludeKeywords []string `json:"excludeKeywords"`
}

// NormalizeFilters returns raw with every missing sequence replaced by an
// empty one, so callers never observe a null filter field.
func NormalizeFilters(raw Filters) Filters {
	return Filters{
		Stack:           orEmpty(raw.Stack),
		Experience:      orEmpty(raw.Experience),
		Keywords:        orEmpty(raw.Keywords),
		Location:        orEmpty(raw.Location),
		JobType:         orEmpty(raw.JobType),
		ExcludeKeywords: orEmpty(raw.ExcludeKeywords),
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type User struct {
	Email     string                      `gorm:"type:text;primaryKey" json:"email"`
	FullName  *string                     `gorm:"column:full_name;type:text" json:"full_name"`
	Pwd       string                      `gorm:"column:pwd;type:text" json:"-"`
	Filters   datatypes.JSONType[Filters] `gorm:"column:filters" json:"filters"`
	Resume    *string                     `gorm:"column:resume;type:text" json:"resume"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// NormalizedFilters reads the stored filters with the defaulting rule applied.
func (u *User) NormalizedFilters() Filters {
	return NormalizeFilters(u.Filters.Data())
}

// UserView is the public shape of a user. The credential never leaves the service.
type UserView struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Filters  Filters `json:"filters"`
	Resume   *string `json:"resume"`
}

func (u *User) View() UserView {
	return UserView{
		ID:       u.Email,
		Email:    u.Email,
		FullName: u.FullName,
		Filters:  u.NormalizedFilters(),
		Resume:   u.Resume,
	}
}
