package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"GoPolicyRAG/app/utils/restclient"
)

const (
	embeddingEndpoint = "/v1/embeddings"
	embedMaxRetries   = 3
)

type embeddingRequestPayload struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingItem struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingResponse struct {
	Data  []embeddingItem `json:"data"`
	Model string          `json:"model"`
}

// RemoteProvider embeds text through an OpenAI-compatible embeddings
// endpoint hosting the primary model.
type RemoteProvider struct {
	restClient *restclient.RestClient
	model      string
	dim        int
	log        *zap.Logger
}

func NewRemoteProvider(baseURL, model string, dim int, timeout time.Duration, log *zap.Logger) *RemoteProvider {
	return &RemoteProvider{
		restClient: restclient.NewRestClient(baseURL, nil, timeout),
		model:      model,
		dim:        dim,
		log:        log,
	}
}

func (p *RemoteProvider) Name() string   { return "remote:" + p.model }
func (p *RemoteProvider) Dimension() int { return p.dim }

func (p *RemoteProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if isBlank(text) {
		return ZeroVector(p.dim), nil
	}

	resp, err := p.send(ctx, embeddingRequestPayload{Model: p.model, Input: text})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return resp.Data[0].Embedding, nil
}

// Ping verifies the endpoint can actually serve embeddings; used once at
// startup to decide whether this provider is usable.
func (p *RemoteProvider) Ping(ctx context.Context) error {
	vec, err := p.Embed(ctx, "ping")
	if err != nil {
		return err
	}
	if len(vec) != p.dim {
		return fmt.Errorf("embedding dimension %d does not match configured %d", len(vec), p.dim)
	}
	return nil
}

func (p *RemoteProvider) send(ctx context.Context, payload embeddingRequestPayload) (*embeddingResponse, error) {
	var (
		lastErr error
		out     embeddingResponse
	)

	for i := 0; i < embedMaxRetries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if i > 0 {
			time.Sleep(time.Duration(100*(1<<uint(i))) * time.Millisecond)
		}

		body, status, err := p.restClient.Post(ctx, embeddingEndpoint, payload, nil)
		if err != nil {
			lastErr = err
			p.log.Warn("embed attempt failed", zap.Int("attempt", i+1), zap.Error(err))
			continue
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			lastErr = fmt.Errorf("embeddings endpoint returned HTTP %d", status)
			p.log.Warn("embed attempt failed", zap.Int("attempt", i+1), zap.Int("status", status))
			continue
		}
		if err := json.Unmarshal(body, &out); err != nil {
			lastErr = fmt.Errorf("parse embeddings json: %w", err)
			p.log.Warn("embed attempt failed", zap.Int("attempt", i+1), zap.Error(lastErr))
			continue
		}

		return &out, nil
	}
	return nil, fmt.Errorf("embeddings request failed after %d retries: %w", embedMaxRetries, lastErr)
}
