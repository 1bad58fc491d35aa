package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/BerylCAtieno/binko-idea-agent/internal/config"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const ideaColumns = `id, title,
	COALESCE(summary, '') AS summary,
	COALESCE(description, '') AS description,
	COALESCE(idea_type, '') AS idea_type,
	COALESCE(business_model, '') AS business_model,
	COALESCE(monetization, '') AS monetization,
	COALESCE(skills, '[]') AS skills,
	COALESCE(tech_stack, '[]') AS tech_stack,
	COALESCE(difficulty, '') AS difficulty,
	COALESCE(time_to_mvp, '') AS time_to_mvp,
	COALESCE(startup_cost, '') AS startup_cost,
	COALESCE(target_audience, '') AS target_audience,
	COALESCE(niche, '') AS niche,
	COALESCE(competition, '') AS competition,
	COALESCE(key_features, '[]') AS key_features,
	COALESCE(success_factors, '[]') AS success_factors,
	COALESCE(challenges, '[]') AS challenges,
	COALESCE(source_video_id, '') AS source_video_id,
	COALESCE(source_channel, '') AS source_channel,
	COALESCE(confidence, 0) AS confidence`

const insertIdea = `INSERT INTO ideas (
	id, title, summary, description, idea_type, business_model, monetization,
	skills, tech_stack, difficulty, time_to_mvp, startup_cost, target_audience,
	niche, competition, key_features, success_factors, challenges,
	source_video_id, source_channel, confidence
) VALUES (
	:id, :title, :summary, :description, :idea_type, :business_model, :monetization,
	:skills, :tech_stack, :difficulty, :time_to_mvp, :startup_cost, :target_audience,
	:niche, :competition, :key_features, :success_factors, :challenges,
	:source_video_id, :source_channel, :confidence
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ideas (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	summary TEXT,
	description TEXT,
	idea_type VARCHAR(50),
	business_model VARCHAR(50),
	monetization TEXT,
	skills JSONB NOT NULL DEFAULT '[]',
	tech_stack JSONB NOT NULL DEFAULT '[]',
	difficulty VARCHAR(20),
	time_to_mvp VARCHAR(50),
	startup_cost VARCHAR(50),
	target_audience TEXT,
	niche VARCHAR(100),
	competition TEXT,
	key_features JSONB NOT NULL DEFAULT '[]',
	success_factors JSONB NOT NULL DEFAULT '[]',
	challenges JSONB NOT NULL DEFAULT '[]',
	source_video_id VARCHAR(50),
	source_channel VARCHAR(200),
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ideas (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	summary TEXT,
	description TEXT,
	idea_type TEXT,
	business_model TEXT,
	monetization TEXT,
	skills TEXT NOT NULL DEFAULT '[]',
	tech_stack TEXT NOT NULL DEFAULT '[]',
	difficulty TEXT,
	time_to_mvp TEXT,
	startup_cost TEXT,
	target_audience TEXT,
	niche TEXT,
	competition TEXT,
	key_features TEXT NOT NULL DEFAULT '[]',
	success_factors TEXT NOT NULL DEFAULT '[]',
	challenges TEXT NOT NULL DEFAULT '[]',
	source_video_id TEXT,
	source_channel TEXT,
	confidence REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
)`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_ideas_difficulty ON ideas(difficulty)`,
	`CREATE INDEX IF NOT EXISTS idx_ideas_niche ON ideas(niche)`,
	`CREATE INDEX IF NOT EXISTS idx_ideas_idea_type ON ideas(idea_type)`,
}

// SQLStore is the sqlx backed idea repository. The same queries serve
// PostgreSQL (lib/pq) and SQLite (modernc); only the DDL differs.
type SQLStore struct {
	db     *sqlx.DB
	driver string
	logger *zap.Logger
}

// Open connects to the configured database, applies pool settings and
// verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, unavailable(err)
	}

	if cfg.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable(err)
	}

	logger.Info("Connected to idea store",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_conns", db.Stats().MaxOpenConnections))

	return NewSQLStore(db, logger), nil
}

// NewSQLStore wraps an existing connection.
func NewSQLStore(db *sqlx.DB, logger *zap.Logger) *SQLStore {
	return &SQLStore{db: db, driver: db.DriverName(), logger: logger}
}

func (s *SQLStore) Close() error {
	s.logger.Info("Closing idea store")
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

// EnsureSchema creates the ideas table and its indexes if missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	schema := postgresSchema
	if s.driver == config.DriverSQLite {
		schema = sqliteSchema
	}
	for _, stmt := range append([]string{schema}, indexes...) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return unavailable(fmt.Errorf("ensure schema: %w", err))
		}
	}
	return nil
}

func (s *SQLStore) FetchCandidates(ctx context.Context, profile models.UserProfile, limit int) ([]models.SourceIdea, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	where, args := FilterFor(profile).clauses()

	query := "SELECT " + ideaColumns + " FROM ideas"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id LIMIT ?"
	args = append(args, limit)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	var ideas []models.SourceIdea
	if err := s.db.SelectContext(ctx, &ideas, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable(err)
	}

	s.logger.Debug("Fetched candidate ideas",
		zap.String("experience_level", profile.ExperienceLevel),
		zap.Int("count", len(ideas)))
	return ideas, nil
}

func (s *SQLStore) List(ctx context.Context, q ListQuery) ([]models.SourceIdea, int, error) {
	var where []string
	var args []any
	if q.Niche != "" {
		where = append(where, "niche = ?")
		args = append(args, q.Niche)
	}
	if q.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, q.Difficulty)
	}
	if q.IdeaType != "" {
		where = append(where, "idea_type = ?")
		args = append(args, q.IdeaType)
	}
	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM ideas"+filter), args...); err != nil {
		return nil, 0, unavailable(err)
	}

	query := "SELECT " + ideaColumns + " FROM ideas" + filter + " ORDER BY created_at, id LIMIT ? OFFSET ?"
	ideas := []models.SourceIdea{}
	if err := s.db.SelectContext(ctx, &ideas, s.db.Rebind(query), append(args, q.Limit, q.Skip)...); err != nil {
		return nil, 0, unavailable(err)
	}
	return ideas, total, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*models.SourceIdea, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var idea models.SourceIdea
	err := s.db.GetContext(ctx, &idea, s.db.Rebind("SELECT "+ideaColumns+" FROM ideas WHERE id = ?"), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return &idea, nil
}

// Create inserts one idea, assigning an id when the caller left it empty.
func (s *SQLStore) Create(ctx context.Context, idea *models.SourceIdea) error {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	if _, err := s.db.NamedExecContext(ctx, insertIdea, idea); err != nil {
		return s.classifyWrite(err)
	}
	s.logger.Info("Created idea", zap.String("id", idea.ID), zap.String("title", idea.Title))
	return nil
}

// BulkCreate inserts all ideas in one transaction.
func (s *SQLStore) BulkCreate(ctx context.Context, ideas []models.SourceIdea) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range ideas {
		if ideas[i].ID == "" {
			ideas[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insertIdea, &ideas[i]); err != nil {
			return 0, s.classifyWrite(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable(err)
	}
	s.logger.Info("Bulk created ideas", zap.Int("count", len(ideas)))
	return len(ideas), nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM ideas WHERE id = ?"), id)
	if err != nil {
		return unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.logger.Info("Deleted idea", zap.String("id", id))
	return nil
}

func (s *SQLStore) classifyWrite(err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return ErrDuplicate
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return unavailable(err)
}
