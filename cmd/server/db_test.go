package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadSeedFile(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"array", `[{"title":"Meal planner","skills":["Python",""]},{"title":"Habit bot"}]`, 2, false},
		{"wrapped", `{"ideas":[{"title":"Meal planner"}]}`, 1, false},
		{"missing title", `[{"title":""}]`, 0, true},
		{"bad difficulty", `[{"title":"x","difficulty":"legendary"}]`, 0, true},
		{"not json", `ideas`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ideas, err := readSeedFile(writeSeed(t, tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, ideas, tt.want)
		})
	}
}

func TestReadSeedFileCleansLists(t *testing.T) {
	ideas, err := readSeedFile(writeSeed(t, `[{"title":"Meal planner","skills":["Python",""," "]}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, []string(ideas[0].Skills))
}

func TestReadSeedFileMissing(t *testing.T) {
	_, err := readSeedFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
