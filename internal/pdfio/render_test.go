package pdfio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/types"
)

func renderDocument() types.CvDocument {
	return types.CvDocument{
		PersonalInfo: types.PersonalInfo{
			FullName: "Margaret Hamilton",
			Title:    "Software Engineering Lead",
			Email:    "margaret@example.com",
			Phone:    "555-0103",
			Location: "Cambridge, MA",
			Summary:  "Led the team that wrote the Apollo guidance software.",
		},
		Experiences: []types.Experience{
			{
				JobTitle:    "Director of Software Engineering",
				Company:     "MIT Instrumentation Lab",
				StartDate:   "1965-01",
				IsCurrent:   true,
				Description: "Responsible for onboard flight software.",
			},
		},
		Education: []types.Education{
			{
				Institution: "Earlham College",
				Degree:      "BA",
				Field:       "Mathematics",
				StartDate:   "1954-09",
				EndDate:     "1958-06",
			},
		},
		Skills: []types.Skill{
			{Name: "Assembly", Level: types.SkillLevelExpert, Category: "Languages"},
		},
	}
}

func TestRenderHTML_IncludesDocumentContent(t *testing.T) {
	html, err := RenderHTML(renderDocument())
	require.NoError(t, err)

	assert.Contains(t, html, "Margaret Hamilton")
	assert.Contains(t, html, "Software Engineering Lead")
	assert.Contains(t, html, "MIT Instrumentation Lab")
	assert.Contains(t, html, "Present", "current roles show Present instead of an end date")
	assert.Contains(t, html, "Earlham College")
	assert.Contains(t, html, "Assembly")
}

func TestRenderHTML_EscapesUserContent(t *testing.T) {
	doc := renderDocument()
	doc.PersonalInfo.FullName = `<script>alert("x")</script>`

	html, err := RenderHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTML_EmptySectionsOmitted(t *testing.T) {
	doc := renderDocument()
	doc.Experiences = []types.Experience{}
	doc.Skills = []types.Skill{}
	doc.PersonalInfo.Summary = ""

	html, err := RenderHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "<h2>Experience</h2>")
	assert.NotContains(t, html, "<h2>Skills</h2>")
	assert.NotContains(t, html, "<h2>Summary</h2>")
	assert.Contains(t, html, "<h2>Education</h2>")
}
