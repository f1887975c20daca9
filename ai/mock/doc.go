// Package mock provides test double implementations of the ai interfaces.
//
// The MockEmbedder allows tests to run without an external embedding
// service. Default behavior is deterministic: the same text always maps to
// the same unit vector, so similarity comparisons are stable across runs.
//
//	mockEmbed := mock.NewMockEmbedder()
//	mockEmbed.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//	count := mockEmbed.CallCount()
package mock
