package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

// DefaultCandidateLimit caps how many stored ideas feed one prompt.
const DefaultCandidateLimit = 15

var (
	ErrStoreUnavailable = errors.DatabaseError("idea store unavailable", nil)
	ErrNotFound         = errors.NotFound("idea")
	ErrDuplicate        = errors.Conflict("idea already exists")
)

// CandidateSource is the read-only view the generation pipeline needs.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, profile models.UserProfile, limit int) ([]models.SourceIdea, error)
}

// IdeaStore is the full idea repository used by the HTTP surface.
type IdeaStore interface {
	CandidateSource
	List(ctx context.Context, q ListQuery) ([]models.SourceIdea, int, error)
	Get(ctx context.Context, id string) (*models.SourceIdea, error)
	Create(ctx context.Context, idea *models.SourceIdea) error
	BulkCreate(ctx context.Context, ideas []models.SourceIdea) (int, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ListQuery holds the paging and equality filters of the list endpoint.
type ListQuery struct {
	Skip       int
	Limit      int
	Niche      string
	Difficulty string
	IdeaType   string
}

// CandidateFilter is the attribute filter derived from a profile. A nil
// Difficulties slice means no difficulty restriction; otherwise ideas with
// an unset difficulty always match.
type CandidateFilter struct {
	Difficulties []string
	Niches       []string
	Types        []string
}

// FilterFor translates a profile into the candidate filter.
func FilterFor(profile models.UserProfile) CandidateFilter {
	var f CandidateFilter
	switch strings.ToLower(profile.ExperienceLevel) {
	case models.LevelBeginner:
		f.Difficulties = []string{models.LevelBeginner}
	case models.LevelIntermediate:
		f.Difficulties = []string{models.LevelBeginner, models.LevelIntermediate}
	}
	if len(profile.PreferredNiches) > 0 {
		f.Niches = append([]string(nil), profile.PreferredNiches...)
	}
	if len(profile.PreferredTypes) > 0 {
		f.Types = append([]string(nil), profile.PreferredTypes...)
	}
	return f
}

// Key is a stable cache key for the filter.
func (f CandidateFilter) Key() string {
	return fmt.Sprintf("d=%s|n=%s|t=%s",
		joinOrDash(f.Difficulties), joinOrDash(f.Niches), joinOrDash(f.Types))
}

func joinOrDash(items []string) string {
	if items == nil {
		return "-"
	}
	return strings.Join(items, ",")
}

// clauses renders the filter as WHERE fragments with sqlx.In style slice args.
func (f CandidateFilter) clauses() ([]string, []any) {
	var where []string
	var args []any
	if f.Difficulties != nil {
		where = append(where, "(difficulty IN (?) OR difficulty IS NULL OR difficulty = '')")
		args = append(args, f.Difficulties)
	}
	if len(f.Niches) > 0 {
		where = append(where, "niche IN (?)")
		args = append(args, f.Niches)
	}
	if len(f.Types) > 0 {
		where = append(where, "idea_type IN (?)")
		args = append(args, f.Types)
	}
	return where, args
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
