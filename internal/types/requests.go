package types

import "github.com/go-playground/validator/v10"

// CreateSessionResponse is returned when a new wizard session is opened.
type CreateSessionResponse struct {
	SessionToken string `json:"sessionToken"`
	SessionID    string `json:"sessionId"`
}

// UpdateSessionRequest is the body of PUT /api/cv-session/{token}.
// All fields are optional; Version enables optimistic concurrency when the
// client chooses to send its last-seen session version.
type UpdateSessionRequest struct {
	CvData         *CvDocument `json:"cvData,omitempty"`
	CurrentStep    *string     `json:"currentStep,omitempty"`
	CurrentSubStep *string     `json:"currentSubStep,omitempty"`
	Version        *int64      `json:"version,omitempty"`
}

// EnhanceDescriptionRequest asks the AI bridge to rewrite one job description.
type EnhanceDescriptionRequest struct {
	Description string `json:"description" validate:"required,min=1"`
	JobTitle    string `json:"jobTitle" validate:"required,min=1"`
	Company     string `json:"company" validate:"required,min=1"`
}

// GenerateSummaryRequest asks the AI bridge for a professional summary over
// the supplied CV fragments. No field is required; the model works with
// whatever is present.
type GenerateSummaryRequest struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experiences  []Experience `json:"experiences"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
}

// CreatePaymentIntentRequest starts a checkout for a session.
type CreatePaymentIntentRequest struct {
	SessionToken string `json:"sessionToken" validate:"required,min=1"`
}

// VerifyPaymentRequest confirms a checkout after the client-side payment
// widget reports success.
type VerifyPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required,min=1"`
	SessionToken    string `json:"sessionToken" validate:"required,min=1"`
}

// GeneratePdfRequest requests the final export for a paid session.
type GeneratePdfRequest struct {
	SessionToken string `json:"sessionToken" validate:"required,min=1"`
}

// Validate validates the EnhanceDescriptionRequest using the validator.
func (r *EnhanceDescriptionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreatePaymentIntentRequest using the validator.
func (r *CreatePaymentIntentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the VerifyPaymentRequest using the validator.
func (r *VerifyPaymentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GeneratePdfRequest using the validator.
func (r *GeneratePdfRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
