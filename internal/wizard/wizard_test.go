package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitial(t *testing.T) {
	p := Initial()
	assert.Equal(t, StepFillForm, p.Step)
	assert.Equal(t, SubStepPersonalInfo, p.SubStep)
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		input   string
		want    Step
		wantErr bool
	}{
		{"fill-form", StepFillForm, false},
		{"processing", StepProcessing, false},
		{"preview-customize", StepPreviewCustomize, false},
		{"personal-info", "", true}, // sub-step, not a step
		{"", "", true},
		{"Fill-Form", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStep(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSubStep(t *testing.T) {
	got, err := ParseSubStep("education")
	require.NoError(t, err)
	assert.Equal(t, SubStepEducation, got)

	_, err = ParseSubStep("processing")
	assert.Error(t, err)
}

func TestNext_WalksSubStepsThenEntersProcessing(t *testing.T) {
	p := Initial()

	p = Next(p)
	assert.Equal(t, Position{StepFillForm, SubStepExperience}, p)
	p = Next(p)
	assert.Equal(t, Position{StepFillForm, SubStepEducation}, p)
	p = Next(p)
	assert.Equal(t, Position{StepFillForm, SubStepSkills}, p)

	// Fourth call from the last sub-step leaves the form.
	p = Next(p)
	assert.Equal(t, StepProcessing, p.Step)

	p = Next(p)
	assert.Equal(t, StepPreviewCustomize, p.Step)
}

func TestNext_NoOpAtPreviewCustomize(t *testing.T) {
	p := Position{Step: StepPreviewCustomize}
	assert.Equal(t, p, Next(p))
}

func TestPrevious_WalksSubStepsBackwards(t *testing.T) {
	p := Position{Step: StepFillForm, SubStep: SubStepSkills}

	p = Previous(p)
	assert.Equal(t, SubStepEducation, p.SubStep)
	p = Previous(p)
	assert.Equal(t, SubStepExperience, p.SubStep)
	p = Previous(p)
	assert.Equal(t, SubStepPersonalInfo, p.SubStep)

	// No step before fill-form/personal-info.
	assert.Equal(t, p, Previous(p))
}

func TestPrevious_ReEntryLandsOnLastSubStep(t *testing.T) {
	// Backing out of the preview resumes at the skills panel, not at the
	// start of the form.
	p := Previous(Position{Step: StepPreviewCustomize})
	assert.Equal(t, StepFillForm, p.Step)
	assert.Equal(t, SubStepSkills, p.SubStep)

	p = Previous(Position{Step: StepProcessing})
	assert.Equal(t, StepFillForm, p.Step)
	assert.Equal(t, SubStepSkills, p.SubStep)
}

func TestForwardBackwardRoundTrip(t *testing.T) {
	// next() x4 from the initial state reaches (fill-form, skills); a fifth
	// enters processing; previous() from preview-customize returns to
	// (fill-form, skills), not personal-info.
	p := Initial()
	for i := 0; i < 3; i++ {
		p = Next(p)
	}
	require.Equal(t, Position{StepFillForm, SubStepSkills}, p)

	p = Next(p)
	require.Equal(t, StepProcessing, p.Step)
	p = Next(p)
	require.Equal(t, StepPreviewCustomize, p.Step)

	p = Previous(p)
	assert.Equal(t, Position{StepFillForm, SubStepSkills}, p)
}
