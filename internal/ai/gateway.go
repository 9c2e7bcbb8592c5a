// Package ai provides a provider-agnostic AI gateway used for worksheet authoring.
package ai

import (
	"context"
	"errors"
)

// TaskType names the kind of generation a request serves. Providers use it
// only for logging; routing is by registration order.
type TaskType int

const (
	TaskWorksheet TaskType = iota
	TaskQuestion
	TaskPassage
	TaskIllustration
)

func (t TaskType) String() string {
	switch t {
	case TaskWorksheet:
		return "worksheet"
	case TaskQuestion:
		return "question"
	case TaskPassage:
		return "passage"
	case TaskIllustration:
		return "illustration"
	default:
		return "unknown"
	}
}

// ErrNoProviders is returned by a Router with nothing registered.
var ErrNoProviders = errors.New("no AI providers registered")

// ErrNoImage is returned when a provider answered without image data.
var ErrNoImage = errors.New("no image data in response")

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to an AI completion.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Task        TaskType  `json:"task,omitempty"`
	JSON        bool      `json:"json,omitempty"` // ask for a bare JSON object
}

// CompletionResponse is the output from an AI completion.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// ImageRequest asks for one illustration.
type ImageRequest struct {
	Prompt      string
	Model       string
	AspectRatio string // e.g. "16:9"
}

// ImageResponse carries the generated image as a data URL.
type ImageResponse struct {
	DataURL string
	Model   string
}

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MaxTokens   int    `json:"max_tokens"`
	Description string `json:"description"`
}

// Provider is the interface all AI providers must implement.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	Models() []ModelInfo
	HealthCheck(ctx context.Context) error
}

// ImageProvider is implemented by providers that can draw illustrations.
type ImageProvider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error)
}
