package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

func TestBuildRendersEverySlot(t *testing.T) {
	system, user := Build(models.UserProfile{ExperienceLevel: "beginner"}, nil, 3)

	assert.Equal(t, SystemInstruction, system)
	for _, line := range []string{
		"- Technical Skills: None specified",
		"- Other Skills: None specified",
		"- Experience Level: beginner",
		"- Preferred Niches: Open to any",
		"- Preferred Types: Open to any",
		"- Hours/Week Available: Flexible",
		"- Budget: Not specified",
		"- Income Goal: Not specified",
		"- Timeline: Flexible",
		"- Interests: Not specified",
		"- Background: Not specified",
	} {
		assert.Contains(t, user, line)
	}
	assert.Contains(t, user, NoCandidatesSentence)
	assert.Contains(t, user, "Generate 3 NEW, ORIGINAL project ideas")
}

func TestBuildRendersCandidates(t *testing.T) {
	hours := 10
	profile := models.UserProfile{
		TechnicalSkills: []string{"Python", "SQL"},
		ExperienceLevel: "intermediate",
		HoursPerWeek:    &hours,
		Budget:          "free",
	}
	candidates := []models.SourceIdea{
		{Title: "Habit Tracker", Summary: "Track habits", IdeaType: "saas", BusinessModel: "subscription", Skills: models.StringList{"Python"}, Difficulty: "beginner", Niche: "productivity"},
		{Title: "Newsletter"},
	}

	_, user := Build(profile, candidates, 5)

	assert.Contains(t, user, "- Hours/Week Available: 10")
	assert.Contains(t, user, "- Budget: free")
	assert.Contains(t, user, "IDEA 1: Habit Tracker\nSummary: Track habits\nType: saas | Model: subscription\nSkills: Python\nDifficulty: beginner\nNiche: productivity")
	assert.Contains(t, user, "IDEA 2: Newsletter")
	assert.NotContains(t, user, NoCandidatesSentence)
	assert.Contains(t, user, "MUST come only from the user's technical skills: Python, SQL.")
	assert.Equal(t, 1, strings.Count(user, "Generate 5 NEW, ORIGINAL"))
}
