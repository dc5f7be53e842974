package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jarvis-rag-backend/internal/vectorstore"
	"jarvis-rag-backend/models"
)

// Client is a minimal REST client to a Pinecone serverless index data
// plane. The index host is the per-index endpoint returned by the
// Pinecone console, not the global API host.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	IndexHost string
	APIKey    string
	Timeout   time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	host := strings.TrimRight(cfg.IndexHost, "/")
	if host != "" && !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return &Client{
		host:       host,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type upsertRequest struct {
	Vectors   []models.ChunkRecord `json:"vectors"`
	Namespace string               `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

func (c *Client) Upsert(ctx context.Context, namespace string, records []models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	var resp upsertResponse
	if err := c.postJSON(ctx, "/vectors/upsert", upsertRequest{
		Vectors:   records,
		Namespace: namespace,
	}, &resp); err != nil {
		return err
	}
	if resp.UpsertedCount != len(records) {
		return fmt.Errorf("upserted %d of %d records", resp.UpsertedCount, len(records))
	}
	return nil
}

type queryRequest struct {
	Namespace       string    `json:"namespace,omitempty"`
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []models.RetrievalMatch `json:"matches"`
}

func (c *Client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]models.RetrievalMatch, error) {
	if topK <= 0 {
		topK = 5
	}
	var resp queryResponse
	if err := c.postJSON(ctx, "/query", queryRequest{
		Namespace:       namespace,
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

type statsResponse struct {
	Dimension        int `json:"dimension"`
	TotalVectorCount int `json:"totalVectorCount"`
	Namespaces       map[string]struct {
		VectorCount int `json:"vectorCount"`
	} `json:"namespaces"`
}

func (c *Client) Stats(ctx context.Context) (*vectorstore.IndexStats, error) {
	var resp statsResponse
	if err := c.postJSON(ctx, "/describe_index_stats", struct{}{}, &resp); err != nil {
		return nil, err
	}
	stats := &vectorstore.IndexStats{
		Dimension:        resp.Dimension,
		TotalVectorCount: resp.TotalVectorCount,
		Namespaces:       make(map[string]int, len(resp.Namespaces)),
	}
	for name, ns := range resp.Namespaces {
		stats.Namespaces[name] = ns.VectorCount
	}
	return stats, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pinecone returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}
