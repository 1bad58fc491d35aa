package validation

var requiredIdeaKeys = []string{"title", "description", "why_good_fit", "first_steps", "tech_recommendations"}

// IsWellFormed reports whether a decoded model answer has the shape the
// pipeline expects: an "ideas" list whose entries carry every required key,
// with non-empty first_steps and tech_recommendations lists.
func IsWellFormed(raw map[string]any) bool {
	ideas, ok := raw["ideas"].([]any)
	if !ok {
		return false
	}
	for _, item := range ideas {
		idea, ok := item.(map[string]any)
		if !ok {
			return false
		}
		for _, key := range requiredIdeaKeys {
			if _, ok := idea[key]; !ok {
				return false
			}
		}
		for _, key := range []string{"first_steps", "tech_recommendations"} {
			list, ok := idea[key].([]any)
			if !ok || len(list) == 0 {
				return false
			}
		}
	}
	return true
}
