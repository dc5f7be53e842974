package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"jarvis-rag-backend/internal/ai"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/utils"

	"github.com/redis/go-redis/v9"
)

// cacheEnvelope is the stored value: the compression algorithm plus the
// (possibly compressed) JSON-encoded vector.
type cacheEnvelope struct {
	Algorithm utils.CompressionAlgorithm `json:"alg"`
	Payload   []byte                     `json:"data"`
}

// CachedEmbedder is a read-through Redis cache in front of an Embedder.
// Keys are content-addressed over model and text, so a model change never
// serves stale vectors. The cache fails open: any Redis error degrades to
// a plain upstream call.
type CachedEmbedder struct {
	upstream ai.Embedder
	client   *redis.Client
	ttl      time.Duration
}

func NewCachedEmbedder(upstream ai.Embedder, client *redis.Client, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{upstream: upstream, client: client, ttl: ttl}
}

func (c *CachedEmbedder) Model() string { return c.upstream.Model() }

func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts serves what it can from Redis and embeds only the misses in a
// single upstream batch, preserving input order in the result.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	missIndexes := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
	}

	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warn("Embedding cache read failed, falling through", "error", err)
		cached = make([]interface{}, len(texts))
	}

	for i := range texts {
		if raw, ok := cached[i].(string); ok {
			if vector, err := decodeVector([]byte(raw)); err == nil {
				vectors[i] = vector
				continue
			} else {
				logger.Warn("Dropping undecodable cache entry", "key", keys[i], "error", err)
			}
		}
		missIndexes = append(missIndexes, i)
		missTexts = append(missTexts, texts[i])
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := c.upstream.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	pipe := c.client.Pipeline()
	for j, idx := range missIndexes {
		vectors[idx] = fresh[j]
		encoded, err := encodeVector(fresh[j])
		if err != nil {
			logger.Warn("Failed to encode vector for cache", "error", err)
			continue
		}
		pipe.Set(ctx, keys[idx], encoded, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Embedding cache write failed", "error", err)
	}

	return vectors, nil
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.upstream.Model() + "\x00" + text))
	return "embed:" + hex.EncodeToString(sum[:])
}

func encodeVector(vector []float32) ([]byte, error) {
	raw, err := json.Marshal(vector)
	if err != nil {
		return nil, err
	}
	algorithm := utils.GetBestCompression(raw)
	compressed, err := utils.CompressData(raw, algorithm)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cacheEnvelope{Algorithm: algorithm, Payload: compressed})
}

func decodeVector(encoded []byte) ([]float32, error) {
	var envelope cacheEnvelope
	if err := json.Unmarshal(encoded, &envelope); err != nil {
		return nil, err
	}
	raw, err := utils.DecompressData(envelope.Payload, envelope.Algorithm)
	if err != nil {
		return nil, err
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, err
	}
	return vector, nil
}
