package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	runWithLevel := func(level string) error {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		return app.Run([]string{"docbase", "--log-level", level})
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Error"} {
			assert.NoError(t, runWithLevel(level), "level %q should be accepted", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := runWithLevel("verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("debug level enables debug logging", func(t *testing.T) {
		require.NoError(t, runWithLevel("debug"))
		assert.True(t, slog.Default().Enabled(nil, slog.LevelDebug))
	})
}

func TestIndexFlagDefaults(t *testing.T) {
	flags := indexFlags()

	find := func(name string) *cli.StringFlag {
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
				return f
			}
		}
		return nil
	}

	db := find("db")
	require.NotNil(t, db)
	assert.Equal(t, "docbase.db", db.Value)

	host := find("embedding-host")
	require.NotNil(t, host)
	assert.Equal(t, "http://localhost:11434/v1", host.Value)

	model := find("embedding-model")
	require.NotNil(t, model)
	assert.Equal(t, "embeddinggemma", model.Value)

	qdrantURL := find("qdrant-url")
	require.NotNil(t, qdrantURL)
	assert.Empty(t, qdrantURL.Value, "qdrant backend must be opt-in")

	dsn := find("postgres-dsn")
	require.NotNil(t, dsn)
	assert.Empty(t, dsn.Value, "pgvector backend must be opt-in")
}
