package validation

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

// Result is the outcome of validating one generated idea. Valid is true
// exactly when Reasons is empty.
type Result struct {
	Valid   bool
	Reasons []string
}

// Validate runs the skill overlap, budget and difficulty checks. It has no
// side effects; every failing check adds a reason.
func (p *Policy) Validate(idea models.GeneratedIdea, profile models.UserProfile) Result {
	var reasons []string
	if r := p.checkSkillOverlap(idea, profile); r != "" {
		reasons = append(reasons, r)
	}
	reasons = append(reasons, p.checkBudget(idea, profile)...)
	if r := p.checkDifficulty(idea, profile); r != "" {
		reasons = append(reasons, r)
	}
	return Result{Valid: len(reasons) == 0, Reasons: reasons}
}

func skillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return set
}

func (p *Policy) checkSkillOverlap(idea models.GeneratedIdea, profile models.UserProfile) string {
	skills := skillSet(profile.TechnicalSkills)
	if len(skills) == 0 {
		return ""
	}
	if len(idea.TechRecommendations) == 0 {
		return "no technology recommendations to match against technical skills"
	}
	matched := 0
	for _, rec := range idea.TechRecommendations {
		if skills[strings.ToLower(strings.TrimSpace(rec))] {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(idea.TechRecommendations))
	if ratio < p.MinSkillOverlap {
		return fmt.Sprintf("skill overlap %.2f below required %.2f", ratio, p.MinSkillOverlap)
	}
	return ""
}

func budgetKeywords(p *Policy, budget string) []string {
	b := strings.ToLower(strings.TrimSpace(budget))
	switch {
	case freeBudgets[b]:
		return p.PaidKeywords
	case under100Keys[b]:
		return p.ExpensiveKeywords
	}
	return nil
}

func (p *Policy) checkBudget(idea models.GeneratedIdea, profile models.UserProfile) []string {
	keywords := budgetKeywords(p, profile.Budget)
	if len(keywords) == 0 {
		return nil
	}
	skills := skillSet(profile.TechnicalSkills)
	var reasons []string
	for _, rec := range idea.TechRecommendations {
		lower := strings.ToLower(strings.TrimSpace(rec))
		if skills[lower] {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				reasons = append(reasons, fmt.Sprintf("%q exceeds budget %q", rec, profile.Budget))
				break
			}
		}
	}
	return reasons
}

func (p *Policy) checkDifficulty(idea models.GeneratedIdea, profile models.UserProfile) string {
	if !strings.EqualFold(strings.TrimSpace(profile.ExperienceLevel), models.LevelBeginner) {
		return ""
	}
	blob := strings.ToLower(strings.Join(idea.TechRecommendations, " ") + " " + idea.Description)
	var hits []string
	for _, kw := range p.AdvancedKeywords {
		if strings.Contains(blob, kw) {
			hits = append(hits, kw)
		}
	}
	if len(hits) == 0 {
		return ""
	}
	return fmt.Sprintf("advanced technology for a beginner: %s", strings.Join(hits, ", "))
}
