package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

type fakeSource struct {
	ideas []models.SourceIdea
	err   error
	limit int
}

func (f *fakeSource) FetchCandidates(_ context.Context, _ models.UserProfile, limit int) ([]models.SourceIdea, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.ideas) > limit {
		return f.ideas[:limit], nil
	}
	return f.ideas, nil
}

func assertShape(t *testing.T, res models.GenerationResult, n int) {
	t.Helper()
	require.Len(t, res.Ideas, n)
	assert.NotEmpty(t, res.ProfileSummary)
	for _, idea := range res.Ideas {
		assert.NotEmpty(t, idea.Title)
		assert.NotEmpty(t, idea.FirstSteps)
		assert.NotNil(t, idea.SourceIdeaIDs)
	}
}

func TestGenerateFromCandidates(t *testing.T) {
	src := &fakeSource{ideas: []models.SourceIdea{
		{ID: "a", Title: "Habit Tracker", Summary: "Track habits", TechStack: models.StringList{"Python", "SQLite", "Flask", "HTMX"}},
		{ID: "b", Title: "Newsletter", Description: "A weekly digest"},
		{ID: "c", Title: "Blank"},
	}}
	profile := models.UserProfile{TechnicalSkills: []string{"Go", "SQL", "HTML", "CSS"}, ExperienceLevel: "intermediate"}

	res := New(src, zap.NewNop()).Generate(context.Background(), profile, 3)
	assertShape(t, res, 3)
	assert.Equal(t, 3, src.limit)

	assert.Equal(t, "Track habits", res.Ideas[0].Description)
	assert.Equal(t, []string{"Python", "SQLite", "Flask"}, res.Ideas[0].TechRecommendations)
	assert.Equal(t, []string{"a"}, res.Ideas[0].SourceIdeaIDs)
	assert.Contains(t, res.Ideas[0].WhyGoodFit, "intermediate")

	assert.Equal(t, "A weekly digest", res.Ideas[1].Description)
	assert.Equal(t, []string{"Go", "SQL", "HTML"}, res.Ideas[1].TechRecommendations)

	assert.Equal(t, placeholderDescription, res.Ideas[2].Description)
	assert.Contains(t, res.ProfileSummary, "intermediate")
}

func TestGeneratePadsWithTemplates(t *testing.T) {
	src := &fakeSource{ideas: []models.SourceIdea{{ID: "a", Title: "Habit Tracker", Summary: "Track habits"}}}
	profile := models.UserProfile{TechnicalSkills: []string{"Python", "SQL", "Go"}, ExperienceLevel: "beginner"}

	res := New(src, zap.NewNop()).Generate(context.Background(), profile, 3)
	assertShape(t, res, 3)

	assert.Equal(t, "Habit Tracker", res.Ideas[0].Title)
	assert.Equal(t, "Portfolio Website with Blog", res.Ideas[1].Title)
	assert.Equal(t, "Simple Automation Tool", res.Ideas[2].Title)
	assert.Equal(t, []string{"Python", "SQL"}, res.Ideas[1].TechRecommendations)
	assert.Empty(t, res.Ideas[1].SourceIdeaIDs)
	assert.Contains(t, res.Ideas[1].WhyGoodFit, "Python, SQL")
}

func TestGenerateSurvivesStoreFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}

	res := New(src, zap.NewNop()).Generate(context.Background(), models.UserProfile{ExperienceLevel: "beginner"}, 2)
	assertShape(t, res, 2)
	assert.Equal(t, []string{"HTML", "CSS", "JavaScript"}, res.Ideas[0].TechRecommendations)
}

func TestGenerateWrapsTemplates(t *testing.T) {
	res := New(nil, zap.NewNop()).Generate(context.Background(), models.UserProfile{}, len(templates)+2)
	assertShape(t, res, len(templates)+2)
	assert.Equal(t, res.Ideas[0].Title, res.Ideas[len(templates)].Title)
	assert.Equal(t, res.Ideas[1].Title, res.Ideas[len(templates)+1].Title)
}

func TestTemplatesFitResponseBounds(t *testing.T) {
	for i := range templates {
		idea := fromTemplate(i, models.UserProfile{})
		assert.NoError(t, idea.CheckBounds(), idea.Title)
	}
}
