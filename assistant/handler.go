package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tootli/dineout-assistant/config"
	"github.com/tootli/dineout-assistant/models"
	"github.com/tootli/dineout-assistant/recommend"
)

// ErrUpstreamUnavailable wraps every failure of the model invoker. The HTTP
// layer maps it to a single service-unavailable response; no retries.
var ErrUpstreamUnavailable = errors.New("AI service unavailable")

// ModelClient is the slice of langchaingo's llms.Model the handler needs.
// Satisfied by *openai.LLM; tests inject a fake.
type ModelClient interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Handler struct {
	llm   ModelClient
	cfg   *config.OpenAI
	audit *AuditStore
}

// NewHandler wires the recommendation flow. audit may be nil when disabled.
func NewHandler(cfg *config.OpenAI, llm ModelClient, audit *AuditStore) *Handler {
	return &Handler{
		llm:   llm,
		cfg:   cfg,
		audit: audit,
	}
}

// Recommend runs the full flow for one request: build the prompt, make the
// single model call, extract and reconcile the identifier list.
func (h *Handler) Recommend(ctx context.Context, req *recommend.Request) (*recommend.Result, error) {
	return h.recommend(ctx, req, nil)
}

// RecommendStream is Recommend with the model's chunks forwarded to
// streamHandler as they arrive. The returned result is still the final,
// reconciled one.
func (h *Handler) RecommendStream(
	ctx context.Context,
	req *recommend.Request,
	streamHandler func(chunk []byte) error,
) (*recommend.Result, error) {
	return h.recommend(ctx, req, streamHandler)
}

func (h *Handler) recommend(
	ctx context.Context,
	req *recommend.Request,
	streamHandler func(chunk []byte) error,
) (*recommend.Result, error) {
	requestID := uuid.NewString()
	prompt := recommend.BuildPrompt(req)

	options := []llms.CallOption{
		llms.WithTemperature(h.cfg.Temperature),
		llms.WithMaxTokens(h.cfg.MaxTokens),
	}
	if streamHandler != nil {
		options = append(options, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return streamHandler(chunk)
		}))
	}

	content, err := h.llm.GenerateContent(ctx, buildMessages(req, prompt), options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if content == nil || len(content.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty model response", ErrUpstreamUnavailable)
	}

	reply := content.Choices[0].Content

	// a marker-less reply passes through untouched: no reconciliation,
	// never the intersection fallback
	extracted, text, found := recommend.ExtractIDs(reply)
	var ids []uint64
	if found {
		var emptied bool
		ids, emptied = recommend.Reconcile(extracted, req.Candidates, req.PreviousCandidateIDs)
		if emptied {
			text = recommend.FallbackNoIntersection
		}
	}
	if ids == nil {
		ids = []uint64{}
	}

	slog.Info("recommendation served",
		"requestId", requestID,
		"user", req.UserName,
		"candidates", len(req.Candidates),
		"recommended", len(ids),
	)

	if h.audit != nil {
		if err := h.audit.Record(ctx, requestID, req.UserName, req.UserQuery, ids); err != nil {
			slog.Error("failed to record audit entry", "requestId", requestID, "error", err)
		}
	}

	return &recommend.Result{
		ResponseText:      text,
		RecommendationIDs: ids,
	}, nil
}

// buildMessages replays the supplied history as prior turns, then closes
// with the instruction block and the generation request itself.
func buildMessages(req *recommend.Request, prompt string) []llms.MessageContent {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	for _, turn := range req.History {
		role := llms.ChatMessageTypeHuman
		if turn.Role == models.RoleModel {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(turn.Content)},
		})
	}

	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf("Por favor, genera la recomendación para %s.", req.UserName))},
	})

	return messages
}

// StreamMessage is the websocket envelope for the streaming endpoint.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
