package chat

import (
	"context"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/llm"
)

// Orchestrator coordinates a single conversation exchange through its
// stages: validate, reformulate, retrieve, synthesize. On success it
// appends exactly two turns (user query, assistant answer) to the supplied
// history; on failure at any stage it leaves the history untouched so the
// caller's stored state cannot be corrupted by a failed request.
type Orchestrator struct {
	retriever   *Retriever
	synthesizer *Synthesizer
	defaults    Defaults
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(retriever *Retriever, synthesizer *Synthesizer, defaults Defaults) *Orchestrator {
	return &Orchestrator{
		retriever:   retriever,
		synthesizer: synthesizer,
		defaults:    defaults,
	}
}

// Converse processes a query against the prior history and per-request
// options. Validation happens before any retrieval work; out-of-range
// parameters are rejected with a ConfigurationError, never clamped.
func (o *Orchestrator) Converse(ctx context.Context, query string, history []Turn, opts Options) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := o.validate(query, opts); err != nil {
		return Result{}, err
	}

	logger.InfoContext(ctx, "conversation exchange started",
		"history_turns", len(history),
		"k", opts.K,
	)

	docs, filter, err := o.retriever.Retrieve(ctx, query, history, opts)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return Result{}, err
	}

	params := llm.ChatParams{Model: opts.ChatModel}
	if params.Model == "" {
		params.Model = o.defaults.ChatModel
	}
	if opts.Temperature != nil {
		params.Temperature = *opts.Temperature
	} else {
		params.Temperature = o.defaults.Temperature
	}

	answer, err := o.synthesizer.Synthesize(ctx, query, history, docs, opts.SystemPrompt, params)
	if err != nil {
		logger.ErrorContext(ctx, "synthesis failed", "error", err)
		return Result{}, err
	}

	sources := make([]Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, Source{
			Title:    doc.Title,
			Category: doc.Category,
			ID:       doc.ID,
		})
	}

	logger.InfoContext(ctx, "conversation exchange completed",
		"answer_length", len(answer),
		"sources", len(sources),
		"filter", filter,
	)

	return Result{
		Answer:  answer,
		Sources: sources,
		History: AppendExchange(history, query, answer),
	}, nil
}

// validate rejects malformed requests before any stage runs.
func (o *Orchestrator) validate(query string, opts Options) error {
	if query == "" {
		return &ConfigurationError{Field: "message", Message: "cannot be empty"}
	}
	if opts.Temperature != nil && (*opts.Temperature < 0 || *opts.Temperature > 2) {
		return &ConfigurationError{Field: "temperature", Message: "must be in [0.0, 2.0]"}
	}
	if opts.K != 0 && (opts.K < 1 || opts.K > 20) {
		return &ConfigurationError{Field: "k", Message: "must be in [1, 20]"}
	}
	return nil
}
