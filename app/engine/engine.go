package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"GoPolicyRAG/app/generation"
	"GoPolicyRAG/app/retrieval"
)

const (
	// relevanceThreshold is the single gating constant: an answer is
	// grounded only when at least one passage scores above it. Calibrated
	// empirically against the corpus, not architecturally significant.
	relevanceThreshold = 0.3

	defaultTopK = 3

	noMatchAnswer = "抱歉，知识库中没有找到与您问题相关的信息。"

	// Disclaimer marks answers that fall back to the model's general
	// knowledge. The leading delimiter is what front-ends key on.
	disclaimer = "【注意：知识库中没有找到与您问题直接相关的信息，以下回答基于AI通用知识生成，仅供参考。】\n\n"
)

// Source is one citation in an answer.
type Source struct {
	Title      string  `json:"title"`
	Path       string  `json:"path"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content,omitempty"`
}

// Metrics carries wall-clock durations in seconds.
type Metrics struct {
	RetrievalTime  float64 `json:"retrieval_time"`
	GenerationTime float64 `json:"generation_time"`
	TotalTime      float64 `json:"total_time"`
}

// AnswerResult is the engine's sole output shape. It is always well-formed:
// failures surface as explanatory answer text, never as an error.
type AnswerResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Metrics Metrics  `json:"metrics"`
}

// Retriever is the slice of the retrieval layer the engine depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error)
}

// Engine sequences retrieval, the relevance gate, generation and response
// assembly. Stateless across queries apart from its read-only collaborators.
type Engine struct {
	retriever Retriever
	generator generation.Interface
	topK      int
	threshold float64
	log       *zap.Logger
}

func New(retriever Retriever, generator generation.Interface, log *zap.Logger) *Engine {
	return &Engine{
		retriever: retriever,
		generator: generator,
		topK:      defaultTopK,
		threshold: relevanceThreshold,
		log:       log,
	}
}

// WithTopK overrides the default passage count.
func (e *Engine) WithTopK(k int) *Engine {
	if k > 0 {
		e.topK = k
	}
	return e
}

// WithThreshold overrides the relevance gate constant.
func (e *Engine) WithThreshold(t float64) *Engine {
	if t > 0 {
		e.threshold = t
	}
	return e
}

// Answer runs one query through the full pipeline. Every step traps its own
// failures into the result, so callers always receive a complete
// AnswerResult.
func (e *Engine) Answer(ctx context.Context, query string) AnswerResult {
	queryID := uuid.New().String()
	start := time.Now()

	retrievalStart := time.Now()
	passages, err := e.retriever.Retrieve(ctx, query, e.topK)
	retrievalTime := time.Since(retrievalStart).Seconds()

	if err != nil {
		e.log.Error("retrieval failed", zap.String("query_id", queryID), zap.Error(err))
		return AnswerResult{
			Answer:  fmt.Sprintf("检索知识库时出错: %v", err),
			Sources: []Source{},
			Metrics: Metrics{
				RetrievalTime: retrievalTime,
				TotalTime:     time.Since(start).Seconds(),
			},
		}
	}

	if len(passages) == 0 {
		e.log.Info("no passages retrieved", zap.String("query_id", queryID))
		return AnswerResult{
			Answer:  noMatchAnswer,
			Sources: []Source{},
			Metrics: Metrics{
				RetrievalTime: retrievalTime,
				TotalTime:     time.Since(start).Seconds(),
			},
		}
	}

	hasGoodMatch := false
	for _, p := range passages {
		if p.Similarity > e.threshold {
			hasGoodMatch = true
			break
		}
	}
	if !hasGoodMatch {
		e.log.Warn("retrieved passages below relevance threshold",
			zap.String("query_id", queryID), zap.Float64("threshold", e.threshold))
	}

	generationStart := time.Now()
	answer := e.generator.Generate(ctx, BuildPrompt(query, passages))
	generationTime := time.Since(generationStart).Seconds()

	if !hasGoodMatch {
		answer = disclaimer + answer
	}

	result := AnswerResult{
		Answer:  answer,
		Sources: buildSources(passages),
		Metrics: Metrics{
			RetrievalTime:  retrievalTime,
			GenerationTime: generationTime,
			TotalTime:      time.Since(start).Seconds(),
		},
	}

	e.log.Info("query answered",
		zap.String("query_id", queryID),
		zap.Int("passages", len(passages)),
		zap.Bool("grounded", hasGoodMatch),
		zap.Float64("retrieval_time", result.Metrics.RetrievalTime),
		zap.Float64("generation_time", result.Metrics.GenerationTime))
	return result
}

// buildSources extracts citations defensively: a malformed passage becomes a
// placeholder citation instead of aborting the whole list.
func buildSources(passages []retrieval.Passage) []Source {
	sources := make([]Source, 0, len(passages))
	for _, p := range passages {
		s := Source{
			Title:      p.Title,
			Path:       p.SourcePath,
			Similarity: p.Similarity,
			Content:    p.Content,
		}
		if s.Title == "" {
			s.Title = "未知标题"
		}
		if s.Path == "" {
			s.Path = unknownSource
		}
		if s.Similarity < 0 || s.Similarity > 1 {
			s.Similarity = 0
		}
		sources = append(sources, s)
	}
	return sources
}
