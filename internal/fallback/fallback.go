package fallback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
)

const placeholderDescription = "A project inspired by an idea that has already worked for other creators."

var defaultSkills = []string{"HTML", "CSS", "JavaScript"}

var firstSteps = []string{
	"Research the problem and look at similar existing solutions",
	"Sketch the core features and a simple user flow",
	"Build a minimal first version and share it with a few users",
}

type template struct {
	title       string
	description string
}

// templates pad the result when the store has too few matching ideas.
// Index i uses templates[i % len(templates)], so titles repeat for large
// requests.
var templates = []template{
	{
		title:       "Portfolio Website with Blog",
		description: "A personal portfolio site with a simple blog to showcase your projects and write about what you learn. It builds credibility and can bring in freelance work over time.",
	},
	{
		title:       "Simple Automation Tool",
		description: "A small tool that automates a repetitive task you or people around you do every week, such as renaming files, sending reminders or compiling reports.",
	},
	{
		title:       "Learning Resource Aggregator",
		description: "A curated directory of the best free learning resources for a topic you know well, organized by level so newcomers know where to start.",
	},
	{
		title:       "Local Business Landing Pages",
		description: "Simple one-page websites for local businesses that lack an online presence, offered as a low-cost service you can build quickly and repeat.",
	},
	{
		title:       "Personal Budget Tracker",
		description: "A lightweight tracker that helps people log spending and see where their money goes each month, starting with your own needs as the first user.",
	},
}

// Generator builds ideas without the model, from stored ideas first and
// generic templates after that. It always returns a full result.
type Generator struct {
	source store.CandidateSource
	logger *zap.Logger
}

func New(source store.CandidateSource, logger *zap.Logger) *Generator {
	return &Generator{source: source, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, profile models.UserProfile, numIdeas int) models.GenerationResult {
	if numIdeas < 1 {
		numIdeas = 1
	}
	level := profile.ExperienceLevel
	if level == "" {
		level = models.LevelBeginner
	}

	ideas := make([]models.GeneratedIdea, 0, numIdeas)

	if g.source != nil {
		candidates, err := g.source.FetchCandidates(ctx, profile, numIdeas)
		if err != nil {
			g.logger.Warn("Fallback could not read stored ideas", zap.Error(err))
		}
		for _, c := range candidates {
			if len(ideas) == numIdeas {
				break
			}
			ideas = append(ideas, fromCandidate(c, profile, level))
		}
	}
	fromStore := len(ideas)

	for i := 0; len(ideas) < numIdeas; i++ {
		ideas = append(ideas, fromTemplate(i, profile))
	}

	g.logger.Info("Fallback generated ideas",
		zap.Int("from_store", fromStore),
		zap.Int("from_templates", len(ideas)-fromStore))

	return models.GenerationResult{
		Ideas:          ideas,
		ProfileSummary: ProfileSummary(profile),
	}
}

// ProfileSummary is the templated summary used when no model summary exists.
func ProfileSummary(profile models.UserProfile) string {
	level := profile.ExperienceLevel
	if level == "" {
		level = models.LevelBeginner
	}
	return fmt.Sprintf("Ideas selected for your %s experience level based on your skills and preferences.", level)
}

func fromCandidate(c models.SourceIdea, profile models.UserProfile, level string) models.GeneratedIdea {
	desc := firstNonEmpty(c.Summary, c.Description, placeholderDescription)

	tech := firstN(c.TechStack, 3)
	if len(tech) == 0 {
		tech = firstN(profile.TechnicalSkills, 3)
	}

	return models.GeneratedIdea{
		Title:               c.Title,
		Description:         desc,
		WhyGoodFit:          fmt.Sprintf("This idea has worked for other creators and suits a %s experience level.", level),
		FirstSteps:          append([]string(nil), firstSteps...),
		TechRecommendations: tech,
		SourceIdeaIDs:       []string{c.ID},
	}
}

func fromTemplate(i int, profile models.UserProfile) models.GeneratedIdea {
	t := templates[i%len(templates)]
	skills := firstN(profile.TechnicalSkills, 2)
	if len(skills) == 0 {
		skills = append([]string(nil), defaultSkills...)
	}
	return models.GeneratedIdea{
		Title:               t.title,
		Description:         t.description,
		WhyGoodFit:          fmt.Sprintf("You can build this with skills you already have: %s.", strings.Join(skills, ", ")),
		FirstSteps:          append([]string(nil), firstSteps...),
		TechRecommendations: skills,
		SourceIdeaIDs:       []string{},
	}
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, item := range items {
		if len(out) == n {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
