// Package offerings manages the solution and service records shown on the
// public site. Both kinds share one document shape and live in separate
// collections.
package offerings

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nextglide-backend/internal/sections"
)

type Kind string

const (
	KindSolution Kind = "solution"
	KindService  Kind = "service"
)

var ErrInvalidKind = errors.New("invalid offering kind")

func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindSolution, KindService:
		return Kind(value), nil
	case "solutions":
		return KindSolution, nil
	case "services":
		return KindService, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
}

// Plural is the collection name and the route segment.
func (k Kind) Plural() string { return string(k) + "s" }

type Testimonial struct {
	Name    string `bson:"name" json:"name" validate:"max=120"`
	Role    string `bson:"role" json:"role" validate:"max=120"`
	Comment string `bson:"comment" json:"comment" validate:"max=2000"`
}

type FAQ struct {
	Question string `bson:"question" json:"question" validate:"max=500"`
	Answer   string `bson:"answer" json:"answer" validate:"max=4000"`
}

// InquiryFormField is one custom question on the apply dialog of an offering.
type InquiryFormField struct {
	Label       string   `bson:"label" json:"label" validate:"required,max=200"`
	FieldType   string   `bson:"fieldType" json:"fieldType" validate:"inquiryfieldtype"`
	Options     []string `bson:"options" json:"options"`
	Required    bool     `bson:"required" json:"required"`
	Placeholder string   `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	IsVisible   *bool    `bson:"isVisible,omitempty" json:"isVisible,omitempty"`
}

type Offering struct {
	ID                  string `bson:"_id,omitempty" json:"_id"`
	Name                string `bson:"name" json:"name"`
	Slug                string `bson:"slug" json:"slug"`
	Category            string `bson:"category" json:"category"`
	ShortDescription    string `bson:"shortDescription" json:"shortDescription"`
	DetailedDescription string `bson:"detailedDescription" json:"detailedDescription"`
	StartingPrice       string `bson:"startingPrice" json:"startingPrice"`
	CTAText             string `bson:"ctaText" json:"ctaText"`
	SecondaryCTA        string `bson:"secondaryCta" json:"secondaryCta"`
	Timeline            string `bson:"timeline" json:"timeline"`
	PricingModel        string `bson:"pricingModel" json:"pricingModel"`
	YearsExperience     string `bson:"yearsExperience" json:"yearsExperience"`
	ProjectsCompleted   string `bson:"projectsCompleted" json:"projectsCompleted"`
	SecurityDetails     string `bson:"securityDetails" json:"securityDetails"`
	SupportDetails      string `bson:"supportDetails" json:"supportDetails"`
	NextSteps           string `bson:"nextSteps" json:"nextSteps"`

	ProblemsSolved   []string `bson:"problemsSolved" json:"problemsSolved"`
	KeyFeatures      []string `bson:"keyFeatures" json:"keyFeatures"`
	TargetAudience   []string `bson:"targetAudience" json:"targetAudience"`
	IndustriesServed []string `bson:"industriesServed" json:"industriesServed"`
	Technologies     []string `bson:"technologies" json:"technologies"`
	CoverageAreas    []string `bson:"coverageAreas" json:"coverageAreas"`
	CaseStudies      []string `bson:"caseStudies" json:"caseStudies"`
	Certifications   []string `bson:"certifications" json:"certifications"`
	Partnerships     []string `bson:"partnerships" json:"partnerships"`

	ConsultationAvailability *bool `bson:"consultationAvailability,omitempty" json:"consultationAvailability,omitempty"`

	IsOverviewVisible     *bool `bson:"isOverviewVisible,omitempty" json:"isOverviewVisible,omitempty"`
	IsOfferingVisible     *bool `bson:"isOfferingVisible,omitempty" json:"isOfferingVisible,omitempty"`
	IsExperienceVisible   *bool `bson:"isExperienceVisible,omitempty" json:"isExperienceVisible,omitempty"`
	IsDeliveryVisible     *bool `bson:"isDeliveryVisible,omitempty" json:"isDeliveryVisible,omitempty"`
	IsTrustVisible        *bool `bson:"isTrustVisible,omitempty" json:"isTrustVisible,omitempty"`
	IsCTAVisible          *bool `bson:"isCtaVisible,omitempty" json:"isCtaVisible,omitempty"`
	IsTestimonialsVisible *bool `bson:"isTestimonialsVisible,omitempty" json:"isTestimonialsVisible,omitempty"`
	IsFAQsVisible         *bool `bson:"isFaqsVisible,omitempty" json:"isFaqsVisible,omitempty"`

	Testimonials      []Testimonial      `bson:"testimonials" json:"testimonials"`
	FAQs              []FAQ              `bson:"faqs" json:"faqs"`
	InquiryFormFields []InquiryFormField `bson:"inquiryFormFields" json:"inquiryFormFields"`
	DynamicSections   []sections.Section `bson:"dynamicSections" json:"dynamicSections"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Request is the body of both create and update. A nil member was absent
// from the body. On update every present member replaces the stored value
// wholesale; absent members keep theirs.
type Request struct {
	// Echoed back by the admin editor when it saves the whole document.
	ID        json.RawMessage `json:"_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	Version   json.RawMessage `json:"__v,omitempty"`

	Name                *string `json:"name" validate:"omitempty,max=160"`
	Slug                *string `json:"slug" validate:"omitempty,max=160"`
	Category            *string `json:"category" validate:"omitempty,max=120"`
	ShortDescription    *string `json:"shortDescription" validate:"omitempty,max=1000"`
	DetailedDescription *string `json:"detailedDescription" validate:"omitempty,max=20000"`
	StartingPrice       *string `json:"startingPrice" validate:"omitempty,max=120"`
	CTAText             *string `json:"ctaText" validate:"omitempty,max=120"`
	SecondaryCTA        *string `json:"secondaryCta" validate:"omitempty,max=120"`
	Timeline            *string `json:"timeline" validate:"omitempty,max=200"`
	PricingModel        *string `json:"pricingModel" validate:"omitempty,max=200"`
	YearsExperience     *string `json:"yearsExperience" validate:"omitempty,max=60"`
	ProjectsCompleted   *string `json:"projectsCompleted" validate:"omitempty,max=60"`
	SecurityDetails     *string `json:"securityDetails" validate:"omitempty,max=4000"`
	SupportDetails      *string `json:"supportDetails" validate:"omitempty,max=4000"`
	NextSteps           *string `json:"nextSteps" validate:"omitempty,max=4000"`

	ProblemsSolved   *[]string `json:"problemsSolved"`
	KeyFeatures      *[]string `json:"keyFeatures"`
	TargetAudience   *[]string `json:"targetAudience"`
	IndustriesServed *[]string `json:"industriesServed"`
	Technologies     *[]string `json:"technologies"`
	CoverageAreas    *[]string `json:"coverageAreas"`
	CaseStudies      *[]string `json:"caseStudies"`
	Certifications   *[]string `json:"certifications"`
	Partnerships     *[]string `json:"partnerships"`

	ConsultationAvailability *bool `json:"consultationAvailability"`

	IsOverviewVisible     *bool `json:"isOverviewVisible"`
	IsOfferingVisible     *bool `json:"isOfferingVisible"`
	IsExperienceVisible   *bool `json:"isExperienceVisible"`
	IsDeliveryVisible     *bool `json:"isDeliveryVisible"`
	IsTrustVisible        *bool `json:"isTrustVisible"`
	IsCTAVisible          *bool `json:"isCtaVisible"`
	IsTestimonialsVisible *bool `json:"isTestimonialsVisible"`
	IsFAQsVisible         *bool `json:"isFaqsVisible"`

	Testimonials      *[]Testimonial      `json:"testimonials" validate:"omitempty,dive"`
	FAQs              *[]FAQ              `json:"faqs" validate:"omitempty,dive"`
	InquiryFormFields *[]InquiryFormField `json:"inquiryFormFields" validate:"omitempty,dive"`
	DynamicSections   *[]sections.Section `json:"dynamicSections" validate:"omitempty,dive"`
}

// Summary is the compact projection used by the catalog.
type Summary struct {
	Name             string   `bson:"name" json:"name"`
	Slug             string   `bson:"slug" json:"slug"`
	Category         string   `bson:"category" json:"category"`
	ShortDescription string   `bson:"shortDescription" json:"shortDescription"`
	KeyFeatures      []string `bson:"keyFeatures" json:"keyFeatures"`
}
