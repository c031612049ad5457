package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"GoPolicyRAG/app/configs"
	"GoPolicyRAG/app/utils/restclient"
)

// Interface is the answer-generation capability consumed by the engine.
type Interface interface {
	Generate(ctx context.Context, prompt string) string
}

var _ Interface = &Client{}

// Client sends one synchronous chat-completion request per answer. Failure
// at this boundary is deliberately folded into the answer text: retrieval
// results and citations must never be lost because generation failed.
type Client struct {
	restClient *restclient.RestClient
	endpoint   string
	model      string
	webSearch  bool
	log        *zap.Logger
}

func NewClient(cfg configs.GenerationConfig, log *zap.Logger) *Client {
	headers := map[string]string{}
	if cfg.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.Token
	}
	if cfg.AppID != "" {
		headers["appid"] = cfg.AppID
	}
	return &Client{
		restClient: restclient.NewRestClient(cfg.BaseURL, headers, time.Duration(cfg.TimeoutSeconds)*time.Second),
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		webSearch:  cfg.WebSearch,
		log:        log,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) string {
	payload := requestPayload{
		Model:    c.model,
		Messages: []Message{{Role: "user", Content: prompt}},
		WebSearch: webSearchOptions{
			Enable:         c.webSearch,
			EnableCitation: false,
			EnableTrace:    false,
		},
	}

	body, status, err := c.restClient.Post(ctx, c.endpoint, payload, nil)
	if err != nil {
		c.log.Error("generation request failed", zap.Error(err))
		return fmt.Sprintf("生成回答时出错: %v", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.log.Error("generation endpoint returned error status",
			zap.Int("status", status), zap.ByteString("body", body))
		return fmt.Sprintf("生成回答时出错: 服务返回 HTTP %d", status)
	}

	answer, ok := ExtractAnswer(body)
	if !ok {
		c.log.Error("unrecognized generation response envelope", zap.ByteString("body", body))
	}
	return answer
}
