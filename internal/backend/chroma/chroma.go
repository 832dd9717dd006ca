// Package chroma is a minimal REST client for a Chroma server. Embedding
// happens server-side via the collection's configured embedding function;
// this client only ships text and metadata.
package chroma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"coursechat/internal/backend"
)

// Storage implements backend.Backend against a Chroma HTTP endpoint.
type Storage struct {
	url    string
	apiKey string
	client *http.Client

	mu  sync.Mutex
	ids map[string]string // collection name -> server id
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
		ids:    make(map[string]string),
	}
}

// collectionID resolves a collection name to its server id, creating the
// collection when missing. Ids are cached per name.
func (s *Storage) collectionID(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[name]; ok {
		return id, nil
	}
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{"name": name, "get_or_create": true}
	if err := s.postJSON(s.url+"/api/v1/collections", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma returned no id for collection %q", name)
	}
	s.ids[name] = resp.ID
	return resp.ID, nil
}

func (s *Storage) Upsert(name string, ids, documents []string, metadatas []map[string]any) error {
	colID, err := s.collectionID(name)
	if err != nil {
		return err
	}
	body := map[string]any{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}
	return s.postJSON(fmt.Sprintf("%s/api/v1/collections/%s/upsert", s.url, colID), body, nil)
}

func (s *Storage) Query(name, queryText string, n int, where map[string]any) (backend.QueryResult, error) {
	colID, err := s.collectionID(name)
	if err != nil {
		return backend.QueryResult{}, err
	}
	if n <= 0 {
		n = 5
	}
	body := map[string]any{
		"query_texts": []string{queryText},
		"n_results":   n,
		"include":     []string{"documents", "metadatas", "distances"},
	}
	if where != nil {
		body["where"] = where
	}
	var resp struct {
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
		Distances [][]float64        `json:"distances"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/api/v1/collections/%s/query", s.url, colID), body, &resp); err != nil {
		return backend.QueryResult{}, err
	}
	var out backend.QueryResult
	if len(resp.Documents) > 0 {
		out.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		out.Metadatas = resp.Metadatas[0]
	}
	if len(resp.Distances) > 0 {
		out.Distances = resp.Distances[0]
	}
	return out, nil
}

func (s *Storage) Get(name string, ids []string) (backend.GetResult, error) {
	colID, err := s.collectionID(name)
	if err != nil {
		return backend.GetResult{}, err
	}
	body := map[string]any{"include": []string{"metadatas"}}
	if ids != nil {
		body["ids"] = ids
	}
	var resp struct {
		IDs       []string         `json:"ids"`
		Metadatas []map[string]any `json:"metadatas"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/api/v1/collections/%s/get", s.url, colID), body, &resp); err != nil {
		return backend.GetResult{}, err
	}
	return backend.GetResult{IDs: resp.IDs, Metadatas: resp.Metadatas}, nil
}

func (s *Storage) DeleteCollection(name string) error {
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/collections/%s", s.url, name), nil)
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("chroma DELETE %s failed: %s", name, resp.Status)
	}
	s.mu.Lock()
	delete(s.ids, name)
	s.mu.Unlock()
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chroma POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (s *Storage) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}
