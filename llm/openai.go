package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client using the official openai-go SDK (chat completions).
// Structured output is obtained by forcing a call to a single named function tool.
type OpenAIClient struct {
	Model  string
	client openai.Client
}

// NewOpenAIClient builds a client from settings. Automatic SDK retries are disabled.
func NewOpenAIClient(cfg *Settings, extra ...option.RequestOption) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)
	return &OpenAIClient{Model: cfg.Model, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAIClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultTextTokens
	}
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(o.Model),
		Messages:  messages(req.System, req.Prompt),
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: text completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoOutput
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrNoOutput
	}
	return text, nil
}

func (o *OpenAIClient) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	if req.SchemaName == "" {
		return nil, errors.New("openai: schema name is required")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultStructuredTokens
	}
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(o.Model),
		Messages:  messages(req.System, req.Prompt),
		MaxTokens: openai.Int(int64(maxTokens)),
		Tools: []openai.ChatCompletionToolParam{{
			Function: openai.FunctionDefinitionParam{
				Name:        req.SchemaName,
				Description: openai.String("Output structured data as " + req.SchemaName),
				Parameters:  openai.FunctionParameters(req.Schema),
			},
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: req.SchemaName},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: structured completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoOutput
	}
	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name == req.SchemaName && call.Function.Arguments != "" {
			return json.RawMessage(call.Function.Arguments), nil
		}
	}
	return nil, ErrNoOutput
}

func messages(system, prompt string) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	return append(msgs, openai.UserMessage(prompt))
}
