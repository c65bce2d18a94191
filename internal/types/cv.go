// Package types provides type definitions for structured data used throughout the cv-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillLevel values accepted for Skill.Level.
const (
	SkillLevelBeginner     = "beginner"
	SkillLevelIntermediate = "intermediate"
	SkillLevelAdvanced     = "advanced"
	SkillLevelExpert       = "expert"
)

// PersonalInfo holds the identity block of a CV document.
// Summary is optional; every other field is required and non-empty.
type PersonalInfo struct {
	FullName string `json:"fullName" validate:"required,min=1"`
	Title    string `json:"title" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=1"`
	Location string `json:"location" validate:"required,min=1"`
	Summary  string `json:"summary,omitempty"`
}

// Experience is a single work-history entry.
// EndDate is ignored while IsCurrent is true.
type Experience struct {
	JobTitle    string `json:"jobTitle" validate:"required,min=1"`
	Company     string `json:"company" validate:"required,min=1"`
	StartDate   string `json:"startDate" validate:"required,min=1"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description" validate:"required,min=1"`
}

// Education is a single education entry.
type Education struct {
	Institution string `json:"institution" validate:"required,min=1"`
	Degree      string `json:"degree" validate:"required,min=1"`
	Field       string `json:"field" validate:"required,min=1"`
	StartDate   string `json:"startDate" validate:"required,min=1"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
	GPA         string `json:"gpa,omitempty"`
}

// Skill is a single named skill with a proficiency level and free-text category.
type Skill struct {
	Name     string `json:"name" validate:"required,min=1"`
	Level    string `json:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	Category string `json:"category" validate:"required,min=1"`
}

// CvDocument is the resume content being edited by the wizard.
// The list fields are never nil after normalization; they default to
// empty lists when absent from the input.
type CvDocument struct {
	PersonalInfo PersonalInfo `json:"personalInfo" validate:"required"`
	Experiences  []Experience `json:"experiences" validate:"dive"`
	Education    []Education  `json:"education" validate:"dive"`
	Skills       []Skill      `json:"skills" validate:"dive"`
}

// EmptyCvDocument returns the blank document a fresh session starts with.
func EmptyCvDocument() CvDocument {
	return CvDocument{
		Experiences: []Experience{},
		Education:   []Education{},
		Skills:      []Skill{},
	}
}

// Normalize coerces absent list fields to empty lists so that callers
// never see nil slices.
func (d *CvDocument) Normalize() {
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
}
