package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"show me the document content", IntentBroad},
		{"give me a summary", IntentBroad},
		{"read the file", IntentBroad},
		{"tell me about the project", IntentBroad},
		{"SUMMARY please", IntentBroad},
		{"what is the delivery deadline", IntentSpecific},
		{"quarterly revenue figures", IntentSpecific},
		{"", IntentSpecific},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestClassify_SubstringMatch(t *testing.T) {
	// Keyword matching is substring based, so embedded keywords count.
	assert.Equal(t, IntentBroad, Classify("is it readable"))
	assert.Equal(t, IntentBroad, Classify("discontented users"))
}

func TestIsContentRequest(t *testing.T) {
	// "tell" widens recall but keeps the shorter output budget.
	assert.True(t, isContentRequest("show the content"))
	assert.True(t, isContentRequest("read it to me"))
	assert.True(t, isContentRequest("a summary"))
	assert.False(t, isContentRequest("tell me about it"))
	assert.False(t, isContentRequest("specific question"))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "broad", IntentBroad.String())
	assert.Equal(t, "specific", IntentSpecific.String())
}
