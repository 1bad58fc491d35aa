package validation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMinSkillOverlap is the share of recommendations that must come from
// the user's technical skills.
const DefaultMinSkillOverlap = 0.5

// PaidKeywords flag tools that cost money. Matched as substrings of each
// recommendation when the budget is free.
var PaidKeywords = []string{
	"aws", "amazon web services", "azure", "gcp", "google cloud",
	"heroku", "digitalocean", "linode", "vercel pro", "netlify pro", "firebase blaze",
	"shopify", "salesforce", "hubspot", "mailchimp", "twilio", "sendgrid",
	"openai", "gpt-4", "gpt-3", "chatgpt api", "anthropic", "claude api", "gemini api", "cohere",
	"premium", "paid", "subscription", "enterprise",
}

// ExpensiveKeywords is the stricter infrastructure subset enforced for
// budgets under $100.
var ExpensiveKeywords = []string{
	"aws", "amazon web services", "azure", "gcp", "google cloud",
	"enterprise",
	"openai", "gpt-4", "gpt-3", "chatgpt api", "anthropic", "claude api", "gemini api", "cohere",
}

// AdvancedKeywords are technologies judged too heavy for beginners. Matched
// as substrings of the lowercased recommendations and description, so
// "react" also catches "reactjs".
var AdvancedKeywords = []string{
	"kubernetes", "k8s", "helm chart", "docker compose", "docker-compose", "docker swarm",
	"microservice", "service mesh",
	"redis", "memcached", "elasticsearch", "opensearch", "kafka", "rabbitmq", "nats.io", "nats server",
	"graphql", "websocket", "socket.io",
	"react", "vue", "angular", "svelte", "next.js", "nextjs", "nuxt",
	"terraform", "ansible", "pulumi", "cloudformation",
	"jenkins", "github actions", "gitlab ci", "circleci", "travis ci", "argo cd",
}

var (
	freeBudgets  = map[string]bool{"free": true, "$0": true, "0": true, "no budget": true, "none": true}
	under100Keys = map[string]bool{"<$100": true, "< $100": true, "<100": true, "under $100": true, "less than $100": true, "$0-$100": true, "$0-100": true}
)

// Policy holds the keyword tables and thresholds the idea validator applies.
type Policy struct {
	PaidKeywords      []string `yaml:"paid_keywords"`
	ExpensiveKeywords []string `yaml:"expensive_keywords"`
	AdvancedKeywords  []string `yaml:"advanced_keywords"`
	MinSkillOverlap   float64  `yaml:"min_skill_overlap"`
}

// DefaultPolicy returns the built-in tables.
func DefaultPolicy() *Policy {
	return NewPolicy(PaidKeywords, ExpensiveKeywords, AdvancedKeywords, DefaultMinSkillOverlap)
}

func NewPolicy(paid, expensive, advanced []string, minOverlap float64) *Policy {
	p := &Policy{
		PaidKeywords:      normalizeKeywords(paid),
		ExpensiveKeywords: normalizeKeywords(expensive),
		AdvancedKeywords:  normalizeKeywords(advanced),
		MinSkillOverlap:   minOverlap,
	}
	if p.MinSkillOverlap <= 0 {
		p.MinSkillOverlap = DefaultMinSkillOverlap
	}
	return p
}

// LoadPolicyFile extends the default tables with the keywords listed in a
// YAML file. An empty path yields the defaults.
func LoadPolicyFile(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var extra Policy
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	return NewPolicy(
		append(append([]string(nil), PaidKeywords...), extra.PaidKeywords...),
		append(append([]string(nil), ExpensiveKeywords...), extra.ExpensiveKeywords...),
		append(append([]string(nil), AdvancedKeywords...), extra.AdvancedKeywords...),
		extra.MinSkillOverlap,
	), nil
}

func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
