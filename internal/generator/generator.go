package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
	"github.com/BerylCAtieno/binko-idea-agent/internal/fallback"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
	"github.com/BerylCAtieno/binko-idea-agent/internal/prompt"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
	"github.com/BerylCAtieno/binko-idea-agent/internal/validation"
)

const DefaultMaxAttempts = 3

// Invoker returns the decoded JSON object of one model answer.
type Invoker interface {
	Invoke(ctx context.Context, system, user string) (map[string]any, error)
}

type Config struct {
	MaxAttempts    int
	CandidateLimit int
}

// Service runs the generation pipeline: candidates, prompt, model call,
// response and idea validation, with the fallback generator as backstop.
type Service struct {
	source   store.CandidateSource
	invoker  Invoker
	policy   *validation.Policy
	fallback *fallback.Generator
	cfg      Config
	logger   *zap.Logger
}

// NewService wires the pipeline. A nil invoker sends every request straight
// to the fallback generator.
func NewService(source store.CandidateSource, invoker Invoker, policy *validation.Policy, cfg Config, logger *zap.Logger) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.CandidateLimit < 1 {
		cfg.CandidateLimit = store.DefaultCandidateLimit
	}
	if policy == nil {
		policy = validation.DefaultPolicy()
	}
	return &Service{
		source:   source,
		invoker:  invoker,
		policy:   policy,
		fallback: fallback.New(source, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// Generate produces exactly numIdeas ideas for the profile. Only invalid
// input is reported as an error; every downstream failure resolves into the
// fallback result.
func (s *Service) Generate(ctx context.Context, profile models.UserProfile, numIdeas int) (*models.GenerationResult, error) {
	if numIdeas < models.MinNumIdeas || numIdeas > models.MaxNumIdeas {
		return nil, errors.InvalidInput(fmt.Sprintf("num_ideas must be between %d and %d", models.MinNumIdeas, models.MaxNumIdeas))
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("experience_level", profile.ExperienceLevel),
		zap.Int("num_ideas", numIdeas))

	if s.invoker == nil {
		log.Warn("No model configured, using fallback generator")
		return s.useFallback(ctx, profile, numIdeas), nil
	}

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			log.Warn("Request cancelled, skipping remaining attempts", zap.Error(ctx.Err()))
			break
		}
		alog := log.With(zap.Int("attempt", attempt), zap.Int("max_attempts", s.cfg.MaxAttempts))
		if result, ok := s.runAttempt(ctx, profile, numIdeas, alog); ok {
			alog.Info("Generation succeeded", zap.Int("ideas", len(result.Ideas)))
			return result, nil
		}
	}

	log.Warn("Generation attempts exhausted, using fallback generator")
	return s.useFallback(ctx, profile, numIdeas), nil
}

func (s *Service) useFallback(ctx context.Context, profile models.UserProfile, numIdeas int) *models.GenerationResult {
	// The fallback still reads the store; give it a live context even when
	// the caller has gone away.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	result := s.fallback.Generate(ctx, profile, numIdeas)
	return &result
}

// runAttempt is one outer attempt. Partial results are discarded by the
// caller; nothing carries over to the next attempt.
func (s *Service) runAttempt(ctx context.Context, profile models.UserProfile, numIdeas int, log *zap.Logger) (*models.GenerationResult, bool) {
	candidates := s.fetchCandidates(ctx, profile, log)

	system, user := prompt.Build(profile, candidates, numIdeas)
	log.Debug("Prompt built", zap.Int("candidates", len(candidates)), zap.Int("prompt_chars", len(user)))

	raw, err := s.invoker.Invoke(ctx, system, user)
	if err != nil {
		log.Warn("Model invocation failed", zap.Error(err))
		return nil, false
	}

	if !validation.IsWellFormed(raw) {
		log.Warn("Model response malformed, discarding attempt")
		return nil, false
	}

	ideas, summary, err := decodeAnswer(raw)
	if err != nil {
		log.Warn("Model response could not be decoded, discarding attempt", zap.Error(err))
		return nil, false
	}

	valid := make([]models.GeneratedIdea, 0, len(ideas))
	for _, idea := range ideas {
		if err := idea.CheckBounds(); err != nil {
			log.Debug("Idea outside response bounds", zap.String("title", idea.Title), zap.Error(err))
			continue
		}
		if res := s.policy.Validate(idea, profile); !res.Valid {
			log.Debug("Idea rejected by content policy", zap.String("title", idea.Title), zap.Strings("reasons", res.Reasons))
			continue
		}
		idea.SourceIdeaIDs = []string{}
		valid = append(valid, idea)
	}

	if len(valid) < numIdeas {
		log.Info("Not enough valid ideas, retrying",
			zap.Int("returned", len(ideas)),
			zap.Int("valid", len(valid)))
		return nil, false
	}

	if summary == "" {
		summary = fallback.ProfileSummary(profile)
	}
	return &models.GenerationResult{
		Ideas:          valid[:numIdeas],
		ProfileSummary: truncateRunes(summary, models.MaxProfileSummary),
	}, true
}

// fetchCandidates retries a failed store read once, then continues with no
// candidates.
func (s *Service) fetchCandidates(ctx context.Context, profile models.UserProfile, log *zap.Logger) []models.SourceIdea {
	if s.source == nil {
		return nil
	}
	candidates, err := s.source.FetchCandidates(ctx, profile, s.cfg.CandidateLimit)
	if err == nil {
		return candidates
	}
	log.Warn("Candidate fetch failed, retrying once", zap.Error(err))

	candidates, err = s.source.FetchCandidates(ctx, profile, s.cfg.CandidateLimit)
	if err != nil {
		log.Warn("Candidate fetch failed again, continuing without inspiration", zap.Error(err))
		return nil
	}
	return candidates
}

type modelAnswer struct {
	ProfileSummary string                 `json:"profile_summary"`
	Ideas          []models.GeneratedIdea `json:"ideas"`
}

func decodeAnswer(raw map[string]any) ([]models.GeneratedIdea, string, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, "", err
	}
	var ans modelAnswer
	if err := json.Unmarshal(b, &ans); err != nil {
		return nil, "", err
	}
	return ans.Ideas, ans.ProfileSummary, nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
