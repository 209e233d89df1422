// Package contacts is the lead-capture inbox fed by the contact page and the
// quick contact dialogs.
package contacts

import "time"

type Contact struct {
	ID         string    `bson:"_id,omitempty" json:"_id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Company    string    `bson:"company,omitempty" json:"company,omitempty"`
	Subject    string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	Source     string    `bson:"source,omitempty" json:"source,omitempty"`
	Interest   string    `bson:"interest,omitempty" json:"interest,omitempty"`
	ResumeLink string    `bson:"resumeLink,omitempty" json:"resumeLink,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Company    string `json:"company" validate:"max=160"`
	Subject    string `json:"subject" validate:"max=200"`
	Message    string `json:"message" validate:"max=5000"`
	Source     string `json:"source" validate:"max=60"`
	Interest   string `json:"interest" validate:"max=160"`
	ResumeLink string `json:"resumeLink" validate:"omitempty,url,max=500"`
}

// CustomEmail is a one-off message an admin writes from the inbox.
type CustomEmail struct {
	ToEmail string `json:"toEmail" validate:"required,email"`
	ToName  string `json:"toName" validate:"max=120"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

type ListFilter struct {
	Source string
}
