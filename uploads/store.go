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


// Package uploads stages user-provided files in a dedicated temp
// directory between receipt and ingestion. Staged names are prefixed
// with a random UUID so concurrent uploads of the same filename never
// collide.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DirName is the staging directory created under the system temp dir.
const DirName = "violet-uploads"

// ErrNotFound indicates the staged file does not exist.
var ErrNotFound = errors.New("uploaded file not found")

// Store stages uploads on the local filesystem.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithDir overrides the staging directory. Default is DirName under the
// system temp directory.
func WithDir(dir string) Option {
	return func(s *Store) error {
		if dir != "" {
			s.dir = dir
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Store and ensures the staging directory exists.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		dir:    filepath.Join(os.TempDir(), DirName),
		logger: slog.Default().With("component", "uploads"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return s, nil
}

// Dir returns the staging directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save stages the reader's content under a fresh temp filename and
// returns that filename, shaped "<uuid>-<original name>".
func (s *Store) Save(name string, r io.Reader) (string, error) {
	tempName := fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(name))
	path := filepath.Join(s.dir, tempName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("staged upload", "name", name, "temp_filename", tempName)
	return tempName, nil
}

// Resolve returns the full path of a staged file, or ErrNotFound if it
// does not exist.
func (s *Store) Resolve(tempFilename string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(tempFilename))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, tempFilename)
		}
		return "", err
	}
	return path, nil
}

// Remove deletes a staged file. Failure to remove is logged, not
// returned; a leaked temp file is not worth failing an ingestion over.
func (s *Store) Remove(tempFilename string) {
	path := filepath.Join(s.dir, filepath.Base(tempFilename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove staged upload", "temp_filename", tempFilename, "error", err)
	}
}
