// Package assistant answers free-form questions about the dataset with an
// LLM, using the Memory Store for history and related knowledge.
package assistant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/memory"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
	"github.com/sandevgo/gradebot/pkg/log"
)

const (
	DefaultSampleSize = 5
	extractionTimeout = 20 * time.Second
)

// noDataPhrases mark an answer in which the model admits it found nothing.
var noDataPhrases = []string{
	"no tengo información",
	"no hay datos",
	"i don't have information",
	"i do not have information",
	"no information available",
	"there is no data",
}

type Config struct {
	Model             string
	Timeout           time.Duration
	Temperature       float32
	MaxTokens         int
	TopP              float32
	PromptTokenBudget int
	SampleSize        int
}

// Answer is the outcome of one LLM-assisted turn. NoData is set when the
// model reported it had nothing; Text then still holds its raw answer.
type Answer struct {
	Text   string
	NoData bool
}

type Assistant struct {
	ai        core.AIProvider
	mem       core.Memory
	data      *dataset.Store
	extractor *memory.Extractor
	count     TokenCounter
	cfg       Config

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type Option func(*Assistant)

func WithTokenCounter(c TokenCounter) Option {
	return func(a *Assistant) {
		a.count = c
	}
}

func WithRand(r *rand.Rand) Option {
	return func(a *Assistant) {
		a.rnd = r
	}
}

// New builds the assistant. ai may be nil; Answer then always fails with
// core.ErrUpstreamUnavailable.
func New(ai core.AIProvider, mem core.Memory, data *dataset.Store, cfg Config, opts ...Option) *Assistant {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	a := &Assistant{
		ai:   ai,
		mem:  mem,
		data: data,
		cfg:  cfg,
		rnd:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	if ai != nil {
		a.extractor = memory.NewExtractor(ai, mem)
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.count == nil {
		a.count = NewTokenCounter(cfg.Model)
	}
	return a
}

// Available reports whether an LLM is configured.
func (a *Assistant) Available() bool {
	return a.ai != nil
}

// Answer records the query, asks the LLM and records the reply. Extracted
// entities are merged into memory. LLM failures and timeouts are reported
// as core.ErrUpstreamUnavailable.
func (a *Assistant) Answer(ctx context.Context, userID, query string) (Answer, error) {
	logger := log.FromCtx(ctx)

	if a.data == nil || a.data.IsEmpty() {
		return Answer{}, core.ErrDataUnavailable
	}
	if a.ai == nil {
		return Answer{}, fmt.Errorf("no llm configured: %w", core.ErrUpstreamUnavailable)
	}

	a.mem.AppendTurn(ctx, userID, core.RoleUser, query)

	system := buildSystemPrompt(promptInput{
		Summary:  a.data.Summary(),
		Sample:   a.sample(),
		History:  a.mem.History(userID),
		Recalled: a.mem.Recall(query),
	}, a.cfg.PromptTokenBudget, a.count)

	callCtx, cancel := a.withTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.ai.Chat(callCtx, []core.Message{
		{Role: core.RoleSystem, Content: system},
		{Role: core.RoleUser, Content: query},
	}, core.ChatOptions{
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
		TopP:        a.cfg.TopP,
	})
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("llm call failed")
		return Answer{}, fmt.Errorf("llm chat: %w: %v", core.ErrUpstreamUnavailable, err)
	}

	text := strings.TrimSpace(resp.Content)
	a.mem.AppendTurn(ctx, userID, core.RoleAssistant, text)

	logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("answer_len", len(text)).
		Msg("llm answered")

	a.extract(ctx, query, text)

	return Answer{Text: text, NoData: isNoData(text)}, nil
}

func (a *Assistant) extract(ctx context.Context, query, answer string) {
	if a.extractor == nil {
		return
	}

	extractCtx, cancel := a.withTimeout(ctx, extractionTimeout)
	defer cancel()

	if _, err := a.extractor.Extract(extractCtx, query, answer); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("knowledge extraction failed")
	}
}

func (a *Assistant) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (a *Assistant) sample() []dataset.Record {
	a.rndMu.Lock()
	defer a.rndMu.Unlock()
	return a.data.Sample(a.cfg.SampleSize, a.rnd)
}

func isNoData(answer string) bool {
	lower := strings.ToLower(answer)
	for _, p := range noDataPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
