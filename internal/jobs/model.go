// Package jobs manages career postings and the application form attached to
// each posting.
package jobs

import (
	"encoding/json"
	"time"
)

const DefaultType = "Full-time"

type Job struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	Title       string    `bson:"title" json:"title"`
	Department  string    `bson:"department" json:"department"`
	Location    string    `bson:"location" json:"location"`
	Type        string    `bson:"type" json:"type"`
	Experience  string    `bson:"experience" json:"experience"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// JobRequest is the body of create and update. An update replaces every
// field.
type JobRequest struct {
	ID        json.RawMessage `json:"_id,omitempty" yaml:"-"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty" yaml:"-"`
	Version   json.RawMessage `json:"__v,omitempty" yaml:"-"`

	Title       string `json:"title" yaml:"title" validate:"required,max=160"`
	Department  string `json:"department" yaml:"department" validate:"max=120"`
	Location    string `json:"location" yaml:"location" validate:"max=120"`
	Type        string `json:"type" yaml:"type" validate:"max=60"`
	Experience  string `json:"experience" yaml:"experience" validate:"max=120"`
	Description string `json:"description" yaml:"description" validate:"max=20000"`
}

type FormField struct {
	ID          string   `bson:"id" json:"id" validate:"max=80"`
	Label       string   `bson:"label" json:"label" validate:"required,max=200"`
	Type        string   `bson:"type" json:"type" validate:"formfieldtype"`
	Placeholder string   `bson:"placeholder,omitempty" json:"placeholder,omitempty" validate:"max=200"`
	Required    bool     `bson:"required" json:"required"`
	Options     []string `bson:"options,omitempty" json:"options,omitempty" validate:"max=50"`
}

type ApplicationForm struct {
	ID        string      `bson:"_id,omitempty" json:"_id"`
	JobID     string      `bson:"jobId" json:"jobId"`
	Fields    []FormField `bson:"fields" json:"fields"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

type FormRequest struct {
	JobID  string      `json:"jobId" validate:"required,max=64"`
	Fields []FormField `json:"fields" validate:"max=100,dive"`
}
