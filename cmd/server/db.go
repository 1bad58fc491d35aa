package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ideas table and its indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema is up to date", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [file.json]",
	Short: "Bulk load source ideas from a JSON file",
	Long: `Loads a JSON array of source ideas, or an object with an "ideas" array,
into the idea store. Every record is validated before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ideas, err := readSeedFile(args[0])
		if err != nil {
			return err
		}

		s, err := store.Open(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EnsureSchema(cmd.Context()); err != nil {
			return err
		}

		n, err := s.BulkCreate(cmd.Context(), ideas)
		if err != nil {
			return err
		}
		logger.Info("Seeded ideas", zap.Int("created", n), zap.String("file", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "created %d ideas\n", n)
		return nil
	},
}

func readSeedFile(path string) ([]models.SourceIdea, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var ideas []models.SourceIdea
	if err := json.Unmarshal(raw, &ideas); err != nil {
		var wrapped struct {
			Ideas []models.SourceIdea `json:"ideas"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to parse seed file: %w", err)
		}
		ideas = wrapped.Ideas
	}

	for i := range ideas {
		if err := ideas[i].Validate(); err != nil {
			return nil, fmt.Errorf("idea %d (%q): %w", i, ideas[i].Title, err)
		}
	}
	return ideas, nil
}
