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


package ingestion

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions is the allow-list of document extensions resolved
// from a source. Matching is a case-insensitive suffix check.
var DefaultExtensions = []string{
	".txt", ".pdf", ".docx", ".pptx", ".xlsx", ".md", ".html", ".doc",
}

// fsScheme prefixes descriptors that address a registered fs.FS root.
const fsScheme = "fs:"

// SourceFile is one resolved document. Open returns a fresh reader per
// call; the caller closes it.
type SourceFile struct {
	Name string
	URI  string
	Open func() (io.ReadCloser, error)
}

// Resolver expands a source descriptor into the documents it contains.
//
// Two descriptor forms are supported: "fs:<root>" reads a registered
// fs.FS (embedded assets, test fixtures), anything else is treated as a
// directory path and walked recursively.
type Resolver struct {
	extensions []string
	roots      map[string]fs.FS
	logger     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithExtensions replaces the extension allow-list.
// Default is DefaultExtensions.
func WithExtensions(extensions []string) ResolverOption {
	return func(r *Resolver) error {
		if len(extensions) == 0 {
			return nil
		}
		normalized := make([]string, len(extensions))
		for i, ext := range extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized[i] = ext
		}
		r.extensions = normalized
		return nil
	}
}

// WithFS registers an fs.FS under a root name, addressable as
// "fs:<name>".
func WithFS(name string, fsys fs.FS) ResolverOption {
	return func(r *Resolver) error {
		if name == "" || fsys == nil {
			return fmt.Errorf("fs root requires a name and a filesystem")
		}
		r.roots[name] = fsys
		return nil
	}
}

// WithResolverLogger sets a custom logger.
// Default is slog.Default().
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		extensions: DefaultExtensions,
		roots:      make(map[string]fs.FS),
		logger:     slog.Default().With("component", "source-resolver"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve expands a descriptor into the allow-listed files beneath it.
// Zero matches is not an error; the empty result is logged as a warning.
func (r *Resolver) Resolve(descriptor string) ([]SourceFile, error) {
	var (
		files []SourceFile
		err   error
	)
	if name, ok := strings.CutPrefix(descriptor, fsScheme); ok {
		files, err = r.resolveFS(name)
	} else {
		files, err = r.resolveDir(descriptor)
	}
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		r.logger.Warn("source resolved to zero documents", "descriptor", descriptor)
	} else {
		r.logger.Info("resolved source", "descriptor", descriptor, "files", len(files))
	}
	return files, nil
}

func (r *Resolver) resolveFS(name string) ([]SourceFile, error) {
	fsys, ok := r.roots[name]
	if !ok {
		return nil, fmt.Errorf("%w: no fs root registered as %q", ErrSourceNotFound, name)
	}

	var files []SourceFile
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !r.allowed(path) {
			return nil
		}
		files = append(files, SourceFile{
			Name: filepath.Base(path),
			URI:  fsScheme + name + "/" + path,
			Open: func() (io.ReadCloser, error) { return fsys.Open(path) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	return files, nil
}

func (r *Resolver) resolveDir(dir string) ([]SourceFile, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a readable directory", ErrSourceNotFound, dir)
	}

	var files []SourceFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !r.allowed(path) {
			return nil
		}
		files = append(files, SourceFile{
			Name: filepath.Base(path),
			URI:  path,
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	return files, nil
}

func (r *Resolver) allowed(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range r.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
