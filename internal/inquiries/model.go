// Package inquiries stores applications submitted from a solution or service
// detail page, including answers to that offering's custom form fields.
package inquiries

import (
	"encoding/json"
	"time"

	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/sections"
)

// CustomResponse is the answer to one admin-defined inquiry form field. The
// answer is a string, a list of strings or a boolean (checkbox).
type CustomResponse struct {
	Question string         `bson:"question" json:"question" validate:"required,max=300"`
	Answer   sections.Value `bson:"answer" json:"answer"`
}

type Inquiry struct {
	ID              string           `bson:"_id,omitempty" json:"_id"`
	Kind            offerings.Kind   `bson:"kind" json:"kind"`
	OfferingID      string           `bson:"offeringId" json:"offeringId"`
	OfferingName    string           `bson:"offeringName" json:"offeringName"`
	FullName        string           `bson:"fullName" json:"fullName"`
	Email           string           `bson:"email" json:"email"`
	Phone           string           `bson:"phone" json:"phone"`
	Company         string           `bson:"company,omitempty" json:"company,omitempty"`
	EstimatedBudget string           `bson:"estimatedBudget,omitempty" json:"estimatedBudget,omitempty"`
	Source          string           `bson:"source,omitempty" json:"source,omitempty"`
	Requirements    string           `bson:"requirements,omitempty" json:"requirements,omitempty"`
	CustomResponses []CustomResponse `bson:"customResponses" json:"customResponses"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
}

// MarshalJSON adds the kind specific aliases (solutionId, serviceName, ...)
// the admin pages read.
func (i Inquiry) MarshalJSON() ([]byte, error) {
	type plain Inquiry
	out := struct {
		plain
		SolutionID   string `json:"solutionId,omitempty"`
		SolutionName string `json:"solutionName,omitempty"`
		ServiceID    string `json:"serviceId,omitempty"`
		ServiceName  string `json:"serviceName,omitempty"`
	}{plain: plain(i)}
	switch i.Kind {
	case offerings.KindSolution:
		out.SolutionID, out.SolutionName = i.OfferingID, i.OfferingName
	case offerings.KindService:
		out.ServiceID, out.ServiceName = i.OfferingID, i.OfferingName
	}
	return json.Marshal(out)
}

// CreateRequest accepts both the solution form (solutionId, phone) and the
// service form (serviceId, contactNumber).
type CreateRequest struct {
	OfferingID      string           `json:"offeringId" validate:"omitempty,max=64"`
	SolutionID      string           `json:"solutionId" validate:"omitempty,max=64"`
	SolutionName    string           `json:"solutionName" validate:"omitempty,max=160"`
	ServiceID       string           `json:"serviceId" validate:"omitempty,max=64"`
	ServiceName     string           `json:"serviceName" validate:"omitempty,max=160"`
	FullName        string           `json:"fullName" validate:"required,max=120"`
	Email           string           `json:"email" validate:"required,email"`
	Phone           string           `json:"phone" validate:"omitempty,phone"`
	ContactNumber   string           `json:"contactNumber" validate:"omitempty,phone"`
	Company         string           `json:"company" validate:"max=160"`
	EstimatedBudget string           `json:"estimatedBudget" validate:"max=120"`
	Source          string           `json:"source" validate:"max=120"`
	Requirements    string           `json:"requirements" validate:"max=5000"`
	CustomResponses []CustomResponse `json:"customResponses" validate:"max=50,dive"`
}

type ListFilter struct {
	OfferingID string
}
