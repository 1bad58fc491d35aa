package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
)

func TestProfileNormalize(t *testing.T) {
	p := UserProfile{
		TechnicalSkills: []string{" Python ", "", "  ", "SQL"},
		PreferredNiches: []string{"education", " "},
	}
	p.Normalize()

	assert.Equal(t, []string{"Python", "SQL"}, p.TechnicalSkills)
	assert.Equal(t, []string{"education"}, p.PreferredNiches)
	assert.Equal(t, LevelBeginner, p.ExperienceLevel)
	require.NoError(t, p.Validate())
}

func TestProfileValidateBounds(t *testing.T) {
	hours := 200
	p := UserProfile{ExperienceLevel: "guru", HoursPerWeek: &hours, Budget: "$5"}
	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "experience_level")
	assert.Contains(t, err.Error(), "hours_per_week")
	assert.Contains(t, err.Error(), "budget")
}

func TestProfileAcceptsBudgetTiers(t *testing.T) {
	for _, budget := range []string{"free", "<$100", "<$1000", ">$1000"} {
		p := UserProfile{ExperienceLevel: LevelBeginner, Budget: budget}
		assert.NoError(t, p.Validate(), budget)
	}
}

func TestProfileTooManySkills(t *testing.T) {
	skills := make([]string, 21)
	for i := range skills {
		skills[i] = "skill"
	}
	p := UserProfile{ExperienceLevel: LevelExperienced, TechnicalSkills: skills}
	assert.Error(t, p.Validate())
}

func TestGeneratedIdeaBounds(t *testing.T) {
	ok := GeneratedIdea{
		Title:       "Recipe Planner",
		Description: "Plan weekly meals from what is in the fridge.",
		FirstSteps:  []string{"Sketch the UI"},
	}
	assert.NoError(t, ok.CheckBounds())

	short := ok
	short.Description = "tiny"
	assert.Error(t, short.CheckBounds())

	long := ok
	long.Title = strings.Repeat("x", 201)
	assert.Error(t, long.CheckBounds())

	noSteps := ok
	noSteps.FirstSteps = nil
	assert.Error(t, noSteps.CheckBounds())
}

func TestGenerationRequestCount(t *testing.T) {
	var r GenerationRequest
	assert.Equal(t, DefaultNumIdeas, r.Count())

	five := 5
	r.NumIdeas = &five
	assert.Equal(t, 5, r.Count())
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["Go","SQL"]`)))
	assert.Equal(t, StringList{"Go", "SQL"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
