package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Anthropic.APIKeyEnv)
	assert.Equal(t, 800, cfg.Chunker.ChunkSize)
	assert.Equal(t, 100, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 2, cfg.Session.MaxHistory)
	assert.Equal(t, "memory", cfg.Backend.Type)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "chunker:\n  chunk_size: 400\nbackend:\n  type: chroma\n  chroma:\n    url: http://localhost:8000\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Chunker.ChunkSize)
	assert.Equal(t, "chroma", cfg.Backend.Type)
	require.NotNil(t, cfg.Backend.Chroma)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.Chroma.URL)
	// untouched sections still get defaults
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Anthropic.Model)
	assert.Equal(t, 800, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 3, cfg.Anthropic.MaxRetries)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [not: a: mapping"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := defaultConfig()
	cfg.Search.MaxResults = 9
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Search.MaxResults)
	assert.Equal(t, cfg.Anthropic.Model, loaded.Anthropic.Model)
}

func TestOpenAIEmbedderDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "embedder:\n  type: openai\n  openai:\n    model: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
}
