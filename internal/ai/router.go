package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Router tries registered providers in order until one succeeds.
type Router struct {
	providers map[string]Provider
	fallback  []string // ordered fallback chain
	mu        sync.RWMutex
}

// NewRouter creates a new AI router.
func NewRouter() *Router {
	return &Router{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the router.
func (r *Router) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		r.fallback = append(r.fallback, name)
	}
	r.providers[name] = provider
}

// Complete routes a request to the first provider that answers.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.fallback) == 0 {
		return CompletionResponse{}, ErrNoProviders
	}

	var lastErr error
	for _, name := range r.fallback {
		provider := r.providers[name]

		resp, err := provider.Complete(ctx, req)
		if err != nil {
			slog.Warn("AI provider failed, trying next",
				"provider", name,
				"task", req.Task.String(),
				"error", err,
			)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		slog.Debug("AI request completed",
			"provider", name,
			"task", req.Task.String(),
			"model", resp.Model,
			"input_tokens", resp.InputTokens,
			"output_tokens", resp.OutputTokens,
		)
		return resp, nil
	}

	return CompletionResponse{}, fmt.Errorf("all AI providers failed: %w", lastErr)
}

// GenerateImage routes to the providers that can draw, in registration order.
func (r *Router) GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lastErr error = ErrNoProviders
	for _, name := range r.fallback {
		drawer, ok := r.providers[name].(ImageProvider)
		if !ok {
			continue
		}
		resp, err := drawer.GenerateImage(ctx, req)
		if err != nil {
			slog.Warn("AI image provider failed, trying next", "provider", name, "error", err)
			lastErr = err
			continue
		}
		return resp, nil
	}
	return ImageResponse{}, fmt.Errorf("image generation failed: %w", lastErr)
}

// HasProvider returns true if at least one provider is registered.
func (r *Router) HasProvider() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}

// Providers returns the registered provider names in fallback order.
func (r *Router) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.fallback...)
}

// ProviderInfo describes one registered provider.
type ProviderInfo struct {
	Name   string      `json:"name"`
	Images bool        `json:"images"`
	Models []ModelInfo `json:"models"`
}

// Describe returns the registered providers in fallback order.
func (r *Router) Describe() []ProviderInfo {
	names := r.Providers()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		p := r.providers[name]
		_, images := p.(ImageProvider)
		out = append(out, ProviderInfo{Name: name, Images: images, Models: p.Models()})
	}
	return out
}

// HealthCheck succeeds when at least one registered provider is healthy.
func (r *Router) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.fallback) == 0 {
		return ErrNoProviders
	}
	var errs []error
	for _, name := range r.fallback {
		err := r.providers[name].HealthCheck(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return errors.Join(errs...)
}
