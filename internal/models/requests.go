package models

// Pwd is an opaque credential compared byte for byte; the empty string is a
// valid value.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Pwd      string `json:"pwd"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pwd   string `json:"pwd"`
}

type UserProfileUpdate struct {
	FullName string `json:"full_name" validate:"required"`
}

// ResumeUpdate carries an optional resume; a missing or null value clears it.
type ResumeUpdate struct {
	Resume *string `json:"resume"`
}

type FiltersUpdate struct {
	Filters *Filters `json:"filters" validate:"required"`
}

type FiltersResponse struct {
	Filters Filters `json:"filters"`
}

// ResumeExtracted is what the upload-analyze flow reads back after the
// processor has updated the user.
type ResumeExtracted struct {
	Filters Filters `json:"filters"`
	Resume  *string `json:"resume"`
}

type CreateJobSourceRequest struct {
	Name     string  `json:"name" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	URL      string  `json:"url" validate:"required,url"`
	Enabled  bool    `json:"enabled"`
	LastSync *string `json:"lastSync"`
	UserID   string  `json:"user_id" validate:"required,email"`
}

type LoadNewJobsRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
}

type IngestJobOffersRequest struct {
	UserEmail string     `json:"user_email" validate:"required,email"`
	Offers    []JobOffer `json:"offers" validate:"required,min=1"`
}

type IngestJobOffersResponse struct {
	Status   string `json:"status"`
	Ingested int    `json:"ingested"`
}

// CoverLetterRequest names the offer by its posting id. UserID picks the
// owner's copy when several users hold the same posting.
type CoverLetterRequest struct {
	ID             string `json:"id" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
	Resume         string `json:"resume"`
	UserID         string `json:"user_id,omitempty" validate:"omitempty,email"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"coverLetter"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
