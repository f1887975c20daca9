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

import "strings"

// Intent classifies what a query is after.
type Intent int

const (
	// IntentSpecific means the query should be searched literally.
	IntentSpecific Intent = iota

	// IntentBroad means the user wants wide document coverage
	// ("summarize", "read the contents") rather than a semantic match
	// to the literal phrase.
	IntentBroad
)

// String returns the intent name.
func (i Intent) String() string {
	if i == IntentBroad {
		return "broad"
	}
	return "specific"
}

// broadKeywords flag a query as a broad content request.
var broadKeywords = []string{"content", "summary", "read", "tell"}

// contentKeywords select the longer truncation budget when formatting.
// Narrower than broadKeywords: "tell" widens recall but not output.
var contentKeywords = []string{"content", "summary", "read"}

// Classify returns the intent of a query. The check is a
// case-insensitive substring match against a fixed keyword set.
func Classify(query string) Intent {
	if containsAny(query, broadKeywords) {
		return IntentBroad
	}
	return IntentSpecific
}

func isContentRequest(query string) bool {
	return containsAny(query, contentKeywords)
}

func containsAny(query string, keywords []string) bool {
	lower := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
