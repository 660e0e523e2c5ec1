package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MinMatchScore = 0
	MaxMatchScore = 100
)

// ValidMatchScore reports whether score lies in the closed relevance range.
func ValidMatchScore(score int) bool {
	return score >= MinMatchScore && score <= MaxMatchScore
}

// JobOffer is written by the ingestion workflow and read back per user.
// IsMatch and MatchScore are stored as produced upstream. The same posting
// id may be held by several users.
type JobOffer struct {
	ID           string                      `gorm:"column:id;type:text;primaryKey" json:"id"`
	Title        string                      `gorm:"column:title;type:text" json:"title"`
	Company      string                      `gorm:"column:company;type:text" json:"company"`
	Location     string                      `gorm:"column:location;type:text" json:"location"`
	Type         string                      `gorm:"column:type;type:text" json:"type"`
	Salary       string                      `gorm:"column:salary;type:text" json:"salary"`
	Description  string                      `gorm:"column:description;type:text" json:"description"`
	Requirements datatypes.JSONSlice[string] `gorm:"column:requirements" json:"requirements"`
	Stack        datatypes.JSONSlice[string] `gorm:"column:stack" json:"stack"`
	Experience   string                      `gorm:"column:experience;type:text" json:"experience"`
	PostedDate   string                      `gorm:"column:posted_date;type:text;index" json:"postedDate"`
	Source       string                      `gorm:"column:source;type:text" json:"source"`
	URL          string                      `gorm:"column:url;type:text" json:"url"`
	IsMatch      bool                        `gorm:"column:is_match" json:"isMatch"`
	MatchScore   int                         `gorm:"column:match_score" json:"matchScore"`
	AISummary    string                      `gorm:"column:ai_summary;type:text" json:"aiSummary"`
	CoverLetter  *string                     `gorm:"column:cover_letter;type:text" json:"coverLetter,omitempty"`
	UserID       string                      `gorm:"column:user_id;type:text;primaryKey;index" json:"user_id"`
	CreatedAt    time.Time                   `json:"-"`
	UpdatedAt    time.Time                   `json:"-"`
}

// Normalize replaces null sequences with empty ones before the offer is served.
func (o *JobOffer) Normalize() {
	if o.Requirements == nil {
		o.Requirements = datatypes.JSONSlice[string]{}
	}
	if o.Stack == nil {
		o.Stack = datatypes.JSONSlice[string]{}
	}
}

type JobSource struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text" json:"name"`
	Type      string    `gorm:"column:type;type:text" json:"type"`
	URL       string    `gorm:"column:url;type:text" json:"url"`
	Enabled   bool      `gorm:"column:enabled" json:"enabled"`
	LastSync  *string   `gorm:"column:last_sync;type:text" json:"lastSync"`
	UserID    string    `gorm:"column:user_id;type:text;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
