package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""))
		assert.ErrorIs(t, cfg.Validate(), ErrEmbeddingHostRequired)
	})

	t.Run("blank model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel("   "))
		assert.ErrorIs(t, cfg.Validate(), ErrEmbeddingModelRequired)
	})

	t.Run("options apply", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://remote:8080/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithAPIToken("secret"),
		)
		assert.Equal(t, "http://remote:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.APIToken)
	})
}
