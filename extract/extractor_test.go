package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Text(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("hello world"), "/tmp/notes.txt")
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	assert.Equal(t, "hello world", fragments[0].Text)
	assert.Equal(t, "notes.txt", fragments[0].Source.FileName)
	assert.Equal(t, "text", fragments[0].Source.Processor)
}

func TestExtract_Markdown(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("# Title\n\nbody"), "readme.md")
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Contains(t, fragments[0].Text, "Title")
}

func TestExtract_HTML(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("<html><body><p>rendered text</p></body></html>"), "page.html")
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	assert.Contains(t, fragments[0].Text, "rendered text")
	assert.NotContains(t, fragments[0].Text, "<p>")
	assert.Equal(t, "html", fragments[0].Source.Processor)
}

func TestExtract_CSV(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("name,role\nada,engineer\n"), "team.csv")
	require.NoError(t, err)
	require.NotEmpty(t, fragments)
	assert.Contains(t, fragments[0].Text, "ada")
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	tests := []string{"slides.pptx", "report.docx", "sheet.xlsx", "legacy.doc", "archive.zip"}
	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			_, err := loader.Extract(context.Background(), strings.NewReader("x"), filename)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestExtract_EmptyDocumentYieldsNoFragments(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("   \n\t  "), "blank.txt")
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	fragments, err := loader.Extract(context.Background(),
		strings.NewReader("shouting"), "NOTES.TXT")
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "shouting", fragments[0].Text)
}
