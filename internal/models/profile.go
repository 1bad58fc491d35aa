package models

import "strings"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelExperienced  = "experienced"
)

// UserProfile is the requester's constraints and preferences. It lives for
// one request and is never persisted.
type UserProfile struct {
	TechnicalSkills    []string `json:"technical_skills" validate:"max=20,dive,max=100"`
	NonTechnicalSkills []string `json:"non_technical_skills" validate:"max=20,dive,max=100"`
	ExperienceLevel    string   `json:"experience_level" validate:"oneof=beginner intermediate experienced"`
	PreferredNiches    []string `json:"preferred_niches" validate:"max=10"`
	PreferredTypes     []string `json:"preferred_types" validate:"max=10"`
	HoursPerWeek       *int     `json:"hours_per_week,omitempty" validate:"omitempty,min=1,max=168"`
	Budget             string   `json:"budget,omitempty" validate:"omitempty,oneof=free <$100 <$1000 >$1000"`
	IncomeGoal         string   `json:"income_goal,omitempty" validate:"omitempty,oneof=side_income replace_job scale_big"`
	Timeline           string   `json:"timeline,omitempty" validate:"omitempty,oneof=asap 3_months 6_months 12_months"`
	Interests          string   `json:"interests,omitempty" validate:"max=500"`
	Background         string   `json:"background,omitempty" validate:"max=1000"`
}

// Normalize trims list entries, drops blanks and defaults the experience
// level to beginner.
func (p *UserProfile) Normalize() {
	p.TechnicalSkills = cleanList(p.TechnicalSkills)
	p.NonTechnicalSkills = cleanList(p.NonTechnicalSkills)
	p.PreferredNiches = cleanList(p.PreferredNiches)
	p.PreferredTypes = cleanList(p.PreferredTypes)
	p.ExperienceLevel = strings.ToLower(strings.TrimSpace(p.ExperienceLevel))
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = LevelBeginner
	}
	p.Budget = strings.TrimSpace(p.Budget)
	p.IncomeGoal = strings.TrimSpace(p.IncomeGoal)
	p.Timeline = strings.TrimSpace(p.Timeline)
	p.Interests = strings.TrimSpace(p.Interests)
	p.Background = strings.TrimSpace(p.Background)
}

// Validate checks the profile against its field bounds. Call Normalize first.
func (p *UserProfile) Validate() error {
	return checkStruct(p)
}
