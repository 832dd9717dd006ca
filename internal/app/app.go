// Package app assembles the retrieval engine from configuration. Both
// binaries build their components here so wiring lives in one place.
package app

import (
	"fmt"
	"time"

	"coursechat/internal/backend"
	"coursechat/internal/backend/chroma"
	"coursechat/internal/backend/memory"
	"coursechat/internal/chunker"
	"coursechat/internal/config"
	"coursechat/internal/docparse"
	"coursechat/internal/domain"
	"coursechat/internal/embedding"
	"coursechat/internal/embedding/openai"
	"coursechat/internal/embedding/tfidf"
	"coursechat/internal/llm"
	"coursechat/internal/llm/anthropic"
	"coursechat/internal/orchestrator"
	"coursechat/internal/service"
	"coursechat/internal/session"
	"coursechat/internal/tools"
	"coursechat/internal/vectorstore"
)

const maxToolRounds = 2

// BuildIngestor wires the write path only. The ingest CLI uses this directly
// so indexing never requires a completion-service API key.
func BuildIngestor(cfg *config.AppConfig) (*service.Ingestor, error) {
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var be backend.Backend
	switch cfg.Backend.Type {
	case "memory", "":
		be = memory.NewStorage(embedding.NewCache(emb))
	case "chroma":
		if cfg.Backend.Chroma == nil {
			return nil, fmt.Errorf("chroma backend config missing")
		}
		be = chroma.NewStorage(chroma.Config{
			URL:     cfg.Backend.Chroma.URL,
			APIKey:  cfg.Backend.Chroma.APIKey,
			Timeout: time.Duration(cfg.Backend.Chroma.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend.Type)
	}

	parser := docparse.New(chunker.NewSentenceChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap))
	return service.NewIngestor(parser, vectorstore.NewIndex(be, cfg.Search.MaxResults)), nil
}

// Build wires a full Coordinator from cfg. Configuration mistakes (unknown
// types, missing API keys) fail here, before any query runs.
func Build(cfg *config.AppConfig) (*service.Coordinator, error) {
	ingestor, err := BuildIngestor(cfg)
	if err != nil {
		return nil, err
	}

	completion, err := anthropic.NewClient(anthropic.Config{
		BaseURL:   cfg.Anthropic.BaseURL,
		APIKeyEnv: cfg.Anthropic.APIKeyEnv,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Timeout:   time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("completion service init failed: %w", err)
	}
	svc := llm.WithRetry(completion, llm.RetryPolicy{MaxAttempts: cfg.Anthropic.MaxRetries})

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewSearchTool(ingestor.Index())); err != nil {
		return nil, err
	}
	if err := registry.Register(tools.NewOutlineTool(ingestor.Index())); err != nil {
		return nil, err
	}

	orch := orchestrator.New(svc, maxToolRounds)
	sessions := session.NewStore(cfg.Session.MaxHistory)

	return service.NewCoordinator(ingestor, orch, registry, sessions), nil
}
