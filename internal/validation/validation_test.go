package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

func idea(desc string, tech ...string) models.GeneratedIdea {
	return models.GeneratedIdea{
		Title:               "Idea",
		Description:         desc,
		WhyGoodFit:          "fits",
		FirstSteps:          []string{"start"},
		TechRecommendations: tech,
	}
}

func TestSkillOverlap(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{TechnicalSkills: []string{"Python", "SQL"}, ExperienceLevel: "experienced"}

	tests := []struct {
		name  string
		tech  []string
		valid bool
	}{
		{"half overlaps", []string{"python", "Rust"}, true},
		{"one of three", []string{"Python", "Rust", "Go"}, false},
		{"all overlap", []string{" sql ", "PYTHON"}, true},
		{"no recommendations", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Validate(idea("A tool for tracking things.", tt.tech...), profile)
			assert.Equal(t, tt.valid, res.Valid, res.Reasons)
			assert.Equal(t, res.Valid, len(res.Reasons) == 0)
		})
	}
}

func TestSkillOverlapWithoutSkillsAlwaysPasses(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{ExperienceLevel: "experienced"}

	for _, tech := range [][]string{nil, {"Rust"}, {"COBOL", "Fortran", "Go"}} {
		res := p.Validate(idea("A tool for tracking things.", tech...), profile)
		assert.True(t, res.Valid, res.Reasons)
	}
}

func TestBudgetFree(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{ExperienceLevel: "experienced", Budget: "free"}

	res := p.Validate(idea("Host it somewhere.", "AWS"), profile)
	assert.False(t, res.Valid)

	for _, budget := range []string{"FREE", "$0", "no budget"} {
		profile.Budget = budget
		assert.False(t, p.Validate(idea("Host it somewhere.", "AWS Lambda"), profile).Valid, budget)
	}

	profile.Budget = "free"
	assert.True(t, p.Validate(idea("Host it somewhere.", "SQLite", "Python"), profile).Valid)
	assert.False(t, p.Validate(idea("Host it somewhere.", "Premium hosting"), profile).Valid)
}

func TestBudgetOwnSkillsAreFree(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{
		TechnicalSkills: []string{"AWS", "Python"},
		ExperienceLevel: "experienced",
		Budget:          "free",
	}
	res := p.Validate(idea("Serverless scripts.", "AWS", "Python"), profile)
	assert.True(t, res.Valid, res.Reasons)
}

func TestBudgetUnder100(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{ExperienceLevel: "experienced", Budget: "<$100"}

	assert.False(t, p.Validate(idea("Uses cloud.", "Azure Functions"), profile).Valid)
	assert.True(t, p.Validate(idea("Uses hosting.", "Heroku"), profile).Valid)

	profile.Budget = "under $100"
	assert.False(t, p.Validate(idea("Uses an LLM.", "OpenAI API"), profile).Valid)

	profile.Budget = "<$1000"
	assert.True(t, p.Validate(idea("Uses cloud.", "AWS"), profile).Valid)

	profile.Budget = ""
	assert.True(t, p.Validate(idea("Uses cloud.", "AWS"), profile).Valid)
}

func TestDifficultyBeginner(t *testing.T) {
	p := DefaultPolicy()
	beginner := models.UserProfile{ExperienceLevel: "beginner"}
	experienced := models.UserProfile{ExperienceLevel: "experienced"}

	inTech := idea("A small dashboard.", "Kubernetes")
	inDesc := idea("Deploy the worker fleet on KUBERNETES for scale.", "Python")

	for _, i := range []models.GeneratedIdea{inTech, inDesc} {
		assert.False(t, p.Validate(i, beginner).Valid)
		assert.True(t, p.Validate(i, experienced).Valid)
	}

	intermediate := models.UserProfile{ExperienceLevel: "intermediate"}
	assert.True(t, p.Validate(inTech, intermediate).Valid)
}

func TestDifficultyMatchesSubstrings(t *testing.T) {
	p := DefaultPolicy()
	beginner := models.UserProfile{ExperienceLevel: "beginner"}

	for _, tech := range []string{"ReactJS", "VueJS", "AngularJS", "SvelteKit", "NextJS", "RedisJSON", "GraphQL", "Kubernetes", "Microservices-based"} {
		t.Run(tech, func(t *testing.T) {
			res := p.Validate(idea("A simple project for learners.", tech), beginner)
			assert.False(t, res.Valid)
			require.Len(t, res.Reasons, 1)
			assert.Contains(t, res.Reasons[0], "advanced technology")
		})
	}

	assert.False(t, p.Validate(idea("A reactive spreadsheet for budgets.", "HTML"), beginner).Valid)
	assert.False(t, p.Validate(idea("Server rendered with Next.js pages.", "HTML"), beginner).Valid)
	assert.True(t, p.Validate(idea("A simple recipe site for learners.", "HTML", "CSS"), beginner).Valid)
}

func TestReasonsAccumulate(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{
		TechnicalSkills: []string{"HTML"},
		ExperienceLevel: "beginner",
		Budget:          "free",
	}
	res := p.Validate(idea("Realtime chat.", "AWS", "Redis"), profile)
	assert.False(t, res.Valid)
	assert.Len(t, res.Reasons, 3)
}

func TestValidateIsIdempotent(t *testing.T) {
	p := DefaultPolicy()
	profile := models.UserProfile{TechnicalSkills: []string{"Go"}, ExperienceLevel: "beginner", Budget: "free"}
	i := idea("Uses Kafka streams.", "Go", "GCP")

	first := p.Validate(i, profile)
	second := p.Validate(i, profile)
	assert.Equal(t, first, second)
}

func TestIsWellFormed(t *testing.T) {
	good := map[string]any{
		"profile_summary": "s",
		"ideas": []any{
			map[string]any{
				"title":                "t",
				"description":          "d",
				"why_good_fit":         "w",
				"first_steps":          []any{"one"},
				"tech_recommendations": []any{"Go"},
			},
		},
	}
	assert.True(t, IsWellFormed(good))
	assert.True(t, IsWellFormed(map[string]any{"ideas": []any{}}))

	assert.False(t, IsWellFormed(map[string]any{}))
	assert.False(t, IsWellFormed(map[string]any{"ideas": "not a list"}))
	assert.False(t, IsWellFormed(map[string]any{"ideas": []any{"string idea"}}))

	missing := map[string]any{"ideas": []any{map[string]any{
		"title": "t", "description": "d", "why_good_fit": "w", "tech_recommendations": []any{"Go"},
	}}}
	assert.False(t, IsWellFormed(missing))

	emptySteps := map[string]any{"ideas": []any{map[string]any{
		"title": "t", "description": "d", "why_good_fit": "w", "first_steps": []any{}, "tech_recommendations": []any{"Go"},
	}}}
	assert.False(t, IsWellFormed(emptySteps))

	stringTech := map[string]any{"ideas": []any{map[string]any{
		"title": "t", "description": "d", "why_good_fit": "w", "first_steps": []any{"a"}, "tech_recommendations": "Go",
	}}}
	assert.False(t, IsWellFormed(stringTech))
}

func TestLoadPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paid_keywords:\n  - Notion API\nadvanced_keywords:\n  - Rust\nmin_skill_overlap: 0.75\n"), 0o600))

	p, err := LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, p.MinSkillOverlap)
	assert.Contains(t, p.PaidKeywords, "notion api")
	assert.Contains(t, p.PaidKeywords, "aws")

	beginner := models.UserProfile{ExperienceLevel: "beginner"}
	assert.False(t, p.Validate(idea("Written in Rust.", "HTML"), beginner).Valid)

	def, err := LoadPolicyFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMinSkillOverlap, def.MinSkillOverlap)

	_, err = LoadPolicyFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
