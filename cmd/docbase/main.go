// Copyright 2025 Violet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/violetlabs/docbase"
	"github.com/violetlabs/docbase/ai"
	"github.com/violetlabs/docbase/ai/openai"
	"github.com/violetlabs/docbase/index"
	"github.com/violetlabs/docbase/index/pgvector"
	"github.com/violetlabs/docbase/index/qdrant"
)

func main() {
	// Optional .env next to the binary; missing file is fine.
	godotenv.Load()

	app := &cli.App{
		Name:  "docbase",
		Usage: "Document knowledge base with embedding search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Bulk load documents from a source into the index",
				Action: loadCommand,
				Flags:  indexFlags(),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest one file into a conversation",
				Action: ingestCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:     "conversation-id",
						Aliases:  []string{"c"},
						Usage:    "Conversation to associate the file with",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the file to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "file-type",
						Usage: "Content type of the file",
						Value: "application/octet-stream",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Search indexed documents",
				Action: searchCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "conversation-id",
						Aliases: []string{"c"},
						Usage:   "Conversation scope (empty searches all documents)",
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List documents indexed for a conversation",
				Action: listCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:     "conversation-id",
						Aliases:  []string{"c"},
						Usage:    "Conversation to list documents for",
						Required: true,
					},
				),
			},
			{
				Name:   "contents",
				Usage:  "Print the indexed contents of a conversation's documents",
				Action: contentsCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:     "conversation-id",
						Aliases:  []string{"c"},
						Usage:    "Conversation to read documents from",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// indexFlags are shared by every command that opens the index.
func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Source descriptor (directory path) for bulk loads",
		},
		&cli.BoolFlag{
			Name:  "load-on-startup",
			Usage: "Bulk load the source before running the command",
		},
		&cli.StringSliceFlag{
			Name:  "extension",
			Usage: "Allowed file extension (repeatable, overrides the default allow-list)",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the local BadgerDB index directory",
			Value:   "docbase.db",
		},
		&cli.StringFlag{
			Name:  "qdrant-url",
			Usage: "Qdrant server URL (selects the Qdrant backend)",
		},
		&cli.StringFlag{
			Name:  "qdrant-collection",
			Usage: "Qdrant collection name",
			Value: "docbase",
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "postgres-dsn",
			Usage:   "Postgres connection string (selects the pgvector backend)",
			EnvVars: []string{"DOCBASE_POSTGRES_DSN"},
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Embedding service API token",
			EnvVars: []string{"DOCBASE_API_TOKEN"},
			Value:   "none",
		},
	}
}

// openDatabase builds the Database for the selected index backend.
func openDatabase(c *cli.Context) (*docbase.Database, error) {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIToken(c.String("api-token")),
	)

	opts := []docbase.DatabaseOption{docbase.WithAIConfig(cfg)}
	if exts := c.StringSlice("extension"); len(exts) > 0 {
		opts = append(opts, docbase.WithAllowedExtensions(exts))
	}

	idx, err := buildRemoteIndex(c, cfg)
	if err != nil {
		return nil, err
	}
	if idx != nil {
		opts = append(opts, docbase.WithIndex(idx))
	}

	return docbase.Open(c.String("db"), opts...)
}

// buildRemoteIndex returns a remote index when one is selected by
// flags, or nil to use the local BadgerDB default.
func buildRemoteIndex(c *cli.Context, cfg *ai.Config) (index.Index, error) {
	switch {
	case c.String("qdrant-url") != "":
		embedder, err := openai.NewLangchainEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return qdrant.New(qdrant.Config{
			URL:        c.String("qdrant-url"),
			APIKey:     c.String("qdrant-api-key"),
			Collection: c.String("qdrant-collection"),
		}, embedder)

	case c.String("postgres-dsn") != "":
		embedder, err := openai.NewEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return pgvector.New(c.Context, c.String("postgres-dsn"), embedder)
	}

	return nil, nil
}

func loadCommand(c *cli.Context) error {
	if c.String("source") == "" {
		return fmt.Errorf("load requires --source")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	return pipeline.LoadBulk(c.Context, c.String("source"))
}

// maybeLoadOnStartup runs a bulk load before the command when asked to.
func maybeLoadOnStartup(c *cli.Context, db *docbase.Database) error {
	if !c.Bool("load-on-startup") {
		return nil
	}
	if c.String("source") == "" {
		return fmt.Errorf("--load-on-startup requires --source")
	}

	pipeline, err := db.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	return pipeline.LoadBulk(c.Context, c.String("source"))
}

func ingestCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := maybeLoadOnStartup(c, db); err != nil {
		return err
	}

	pipeline, err := db.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	path := c.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	tempName, err := db.UploadStore().Save(path, f)
	f.Close()
	if err != nil {
		return err
	}

	result := pipeline.IngestUpload(c.Context,
		c.String("conversation-id"), filepath.Base(path), tempName, c.String("file-type"))
	fmt.Println(result)
	return nil
}

func searchCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := maybeLoadOnStartup(c, db); err != nil {
		return err
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}
	defer searcher.Release()

	fmt.Println(searcher.Search(c.Context, c.String("query"), c.String("conversation-id")))
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := maybeLoadOnStartup(c, db); err != nil {
		return err
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}
	defer searcher.Release()

	fmt.Println(searcher.ListDocuments(c.Context, c.String("conversation-id")))
	return nil
}

func contentsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := maybeLoadOnStartup(c, db); err != nil {
		return err
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}
	defer searcher.Release()

	fmt.Println(searcher.DocumentContents(c.Context, c.String("conversation-id")))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
