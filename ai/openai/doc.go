// Package openai implements the ai.Embedder interface using the langchaingo
// client for OpenAI-compatible embedding APIs. It works with any service
// exposing the OpenAI embeddings endpoint, including local servers such as
// Ollama.
package openai
