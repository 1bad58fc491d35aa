package models

const (
	DefaultNumIdeas = 3
	MinNumIdeas     = 1
	MaxNumIdeas     = 10

	MaxProfileSummary = 500
)

// GeneratedIdea is one synthesized idea, from the model or the fallback path.
type GeneratedIdea struct {
	Title               string   `json:"title" validate:"min=1,max=200"`
	Description         string   `json:"description" validate:"min=10,max=1000"`
	WhyGoodFit          string   `json:"why_good_fit" validate:"max=500"`
	FirstSteps          []string `json:"first_steps" validate:"min=1,max=10"`
	TechRecommendations []string `json:"tech_recommendations" validate:"max=10"`
	SourceIdeaIDs       []string `json:"source_idea_ids"`
}

// CheckBounds reports whether the idea fits the response field bounds.
func (g *GeneratedIdea) CheckBounds() error {
	return checkStruct(g)
}

// GenerationResult is the response envelope of a generation request.
type GenerationResult struct {
	Ideas          []GeneratedIdea `json:"ideas"`
	ProfileSummary string          `json:"profile_summary"`
}

type GenerationRequest struct {
	Profile  UserProfile `json:"profile"`
	NumIdeas *int        `json:"num_ideas,omitempty"`
}

// Count returns the requested number of ideas, defaulting when absent.
func (r *GenerationRequest) Count() int {
	if r.NumIdeas == nil {
		return DefaultNumIdeas
	}
	return *r.NumIdeas
}
