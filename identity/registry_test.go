package identity

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	prompts := 0
	prompt := func() string {
		prompts++
		return "amy"
	}

	// Given a first resolution obtained through the prompt
	registry := NewRegistry(db, slog.Default(), prompt)
	req.Equal("amy", registry.Resolve())
	req.Equal(1, prompts)

	// When a fresh registry resolves over the same store
	later := NewRegistry(db, slog.Default(), prompt)

	// Then the persisted identity wins, no prompt involved
	req.Equal("amy", later.Resolve())
	req.Equal(1, prompts)
}

func TestRegistry_CachesWithinProcess(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	prompts := 0
	registry := NewRegistry(db, slog.Default(), func() string {
		prompts++
		return "amy"
	})

	req.Equal("amy", registry.Resolve())
	req.Equal("amy", registry.Resolve())
	req.Equal(1, prompts)
}

func TestRegistry_BlankPromptFallsBackToDefault(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	registry := NewRegistry(db, slog.Default(), func() string { return "   " })

	// Then a pseudo-random default is generated and persisted
	username := registry.Resolve()
	req.True(strings.HasPrefix(username, "User"), "got %q", username)

	later := NewRegistry(db, slog.Default(), func() string { return "ignored" })
	req.Equal(username, later.Resolve())
}

func TestRegistry_DegradesToEphemeralWithoutStore(t *testing.T) {
	req := require.New(t)

	// Given no usable store
	registry := NewRegistry(nil, slog.Default(), func() string { return "amy" })

	// Then resolution still works for this process lifetime
	req.Equal("amy", registry.Resolve())
	req.Equal("amy", registry.Resolve())
}
