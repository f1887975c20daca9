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


package retrieval

import (
	"fmt"
	"strings"

	"github.com/violetlabs/docbase/core"
)

const (
	// Truncation budgets in characters. Content-style requests get the
	// longer budget.
	broadMaxLength   = 1500
	defaultMaxLength = 800

	ellipsis = "..."
	divider  = "\n---\n\n"

	unknownFile = "Unknown file"
	unknownDoc  = "Unknown"
)

// formatSearchResults renders up to maxSearchResults chunks with
// intent-aware truncation.
func formatSearchResults(query string, chunks []core.Chunk) string {
	maxLength := defaultMaxLength
	if isContentRequest(query) {
		maxLength = broadMaxLength
	}

	var b strings.Builder
	b.WriteString("Based on your uploaded documents, here's what I found:\n\n")

	for i, chunk := range chunks {
		fileName := chunk.Metadata.OriginalFilename
		if fileName == "" {
			fileName = unknownFile
		}

		fmt.Fprintf(&b, "**%s**\n", fileName)
		b.WriteString(truncate(chunk.Text, maxLength))
		b.WriteString("\n")

		if i < len(chunks)-1 {
			b.WriteString(divider)
		}
	}

	return b.String()
}

// formatDocumentList renders a numbered listing of distinct filenames
// plus a chunk total.
func formatDocumentList(chunks []core.Chunk) string {
	files := uniqueFilenames(chunks, unknownDoc)

	var b strings.Builder
	b.WriteString("**Documents available in this conversation:**\n\n")
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file)
	}
	fmt.Fprintf(&b, "\nTotal: %d document(s) with %d text chunks processed.", len(files), len(chunks))
	b.WriteString("\n\nYou can now ask me questions about any of these documents!")

	return b.String()
}

// formatDocumentContents renders every chunk grouped by filename in
// first-seen order.
func formatDocumentContents(chunks []core.Chunk) string {
	files := uniqueFilenames(chunks, unknownDoc)

	var b strings.Builder
	b.WriteString("**Complete Document Contents:**\n\n")

	for _, file := range files {
		fmt.Fprintf(&b, "**%s**\n\n", file)
		for _, chunk := range chunks {
			name := chunk.Metadata.OriginalFilename
			if name == "" {
				name = unknownDoc
			}
			if name != file {
				continue
			}
			b.WriteString(chunk.Text)
			b.WriteString("\n")
		}
		b.WriteString(divider)
	}

	return b.String()
}

// uniqueFilenames returns the distinct original filenames in first-seen
// order, substituting fallback for chunks without one.
func uniqueFilenames(chunks []core.Chunk, fallback string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		name := chunk.Metadata.OriginalFilename
		if name == "" {
			name = fallback
		}
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}
	return files
}

// truncate bounds text to max characters, marking the cut with an
// ellipsis.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + ellipsis
}
