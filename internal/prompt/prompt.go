package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

// NoCandidatesSentence replaces the inspiration block when the store
// returned nothing.
const NoCandidatesSentence = "No specific inspiration ideas available."

// SystemInstruction is the fixed policy sent with every generation call.
// The idea validator enforces the same rules on the way back.
const SystemInstruction = `You are a startup idea generator. Create NEW, ORIGINAL project ideas for users based on their profile and patterns from successful ideas.

HARD CONSTRAINTS (never violate these):
1. Recommend ONLY technologies listed in the user's Technical Skills. Do not introduce any other language, framework, service or tool.
2. Never exceed the user's budget:
   - "free": no paid tools or services at all (no cloud providers such as AWS, Azure or GCP, no paid hosting or SaaS tiers, no LLM provider APIs, nothing premium, paid, subscription or enterprise).
   - "<$100": additionally avoid expensive infrastructure (cloud providers, enterprise tiers, LLM provider APIs).
3. For beginners, do not mention advanced technology in the description or recommendations: no Kubernetes, Docker Compose, microservices, Redis, Elasticsearch, Kafka, RabbitMQ, GraphQL, WebSockets, React, Vue, Angular, Svelte, Next.js, Terraform, Ansible, Jenkins or other CI/CD systems.
4. Do NOT copy the inspiration ideas; synthesize new angles.

Your ideas should also:
- Fit the user's time constraints and timeline
- Align with their interests, background and income goal
- Be actionable with clear first steps

Return JSON in this exact format:
{
  "profile_summary": "Brief summary of what makes this user unique",
  "ideas": [
    {
      "title": "Catchy project name",
      "description": "3-4 sentences explaining the idea",
      "why_good_fit": "Why this matches THIS user specifically",
      "first_steps": ["Step 1", "Step 2", "Step 3"],
      "tech_recommendations": ["Tool or tech 1", "Tool 2"]
    }
  ]
}`

// Build renders the profile and candidates into the user instruction and
// returns it together with the fixed system instruction.
func Build(profile models.UserProfile, candidates []models.SourceIdea, numIdeas int) (string, string) {
	var b strings.Builder

	b.WriteString("USER PROFILE:\n")
	writeField(&b, "Technical Skills", orDefault(strings.Join(profile.TechnicalSkills, ", "), "None specified"))
	writeField(&b, "Other Skills", orDefault(strings.Join(profile.NonTechnicalSkills, ", "), "None specified"))
	writeField(&b, "Experience Level", orDefault(profile.ExperienceLevel, models.LevelBeginner))
	writeField(&b, "Preferred Niches", orDefault(strings.Join(profile.PreferredNiches, ", "), "Open to any"))
	writeField(&b, "Preferred Types", orDefault(strings.Join(profile.PreferredTypes, ", "), "Open to any"))
	hours := "Flexible"
	if profile.HoursPerWeek != nil {
		hours = strconv.Itoa(*profile.HoursPerWeek)
	}
	writeField(&b, "Hours/Week Available", hours)
	writeField(&b, "Budget", orDefault(profile.Budget, "Not specified"))
	writeField(&b, "Income Goal", orDefault(profile.IncomeGoal, "Not specified"))
	writeField(&b, "Timeline", orDefault(profile.Timeline, "Flexible"))
	writeField(&b, "Interests", orDefault(profile.Interests, "Not specified"))
	writeField(&b, "Background", orDefault(profile.Background, "Not specified"))

	b.WriteString("\nINSPIRATION IDEAS FROM SUCCESSFUL CREATORS:\n")
	if len(candidates) == 0 {
		b.WriteString(NoCandidatesSentence)
		b.WriteString("\n")
	}
	for i, idea := range candidates {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "IDEA %d: %s\n", i+1, idea.Title)
		fmt.Fprintf(&b, "Summary: %s\n", orDefault(idea.Summary, "Not specified"))
		fmt.Fprintf(&b, "Type: %s | Model: %s\n", orDefault(idea.IdeaType, "Not specified"), orDefault(idea.BusinessModel, "Not specified"))
		fmt.Fprintf(&b, "Skills: %s\n", orDefault(strings.Join(idea.Skills, ", "), "None specified"))
		fmt.Fprintf(&b, "Difficulty: %s\n", orDefault(idea.Difficulty, "Not specified"))
		fmt.Fprintf(&b, "Niche: %s\n", orDefault(idea.Niche, "Not specified"))
	}

	fmt.Fprintf(&b, "\nGenerate %d NEW, ORIGINAL project ideas for this user.\n", numIdeas)
	b.WriteString("Each idea should be unique and tailored to their specific profile. Do not restate the inspiration ideas.\n")
	b.WriteString("If no inspiration ideas are provided, create ideas based purely on the user profile.\n")
	if len(profile.TechnicalSkills) > 0 {
		fmt.Fprintf(&b, "Technology recommendations MUST come only from the user's technical skills: %s.\n", strings.Join(profile.TechnicalSkills, ", "))
	} else {
		b.WriteString("Technology recommendations MUST come only from the user's technical skills; keep them minimal and beginner friendly.\n")
	}

	return SystemInstruction, b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func orDefault(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
