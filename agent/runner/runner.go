// Package runner drives one role's chat loop: send the task, execute the
// model's tool calls, feed results back, and stop at the model's final text
// reply or the step budget.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	toolx "github.com/beaverschoice/paperdesk/agent/tool"
	logx "github.com/beaverschoice/paperdesk/pkg/logger"
)

// Runner is a contract.Capability backed by a tool-calling chat model.
type Runner struct {
	client       *openaisdk.Client
	role         contractx.Role
	model        string
	temperature  float64
	maxSteps     int
	systemPrompt string
	tools        []openaisdk.ChatCompletionToolUnionParam
	exec         toolx.Executor
	log          zerolog.Logger
}

type Options struct {
	Role         contractx.Role
	Model        string
	Temperature  float64
	MaxSteps     int
	SystemPrompt string
	Tools        []toolx.Definition
	Executor     toolx.Executor
}

func New(client *openaisdk.Client, opts Options) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: chat client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("%w: model is required for role=%s", contractx.ErrValidation, opts.Role)
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("%w: max steps must be positive", contractx.ErrValidation)
	}
	if opts.Executor == nil {
		return nil, fmt.Errorf("%w: executor is required for role=%s", contractx.ErrValidation, opts.Role)
	}

	tools := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(opts.Tools))
	for _, def := range opts.Tools {
		tools = append(tools, openaisdk.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        def.Name,
			Description: openaisdk.String(def.Description),
			Parameters:  def.Parameters,
		}))
	}

	return &Runner{
		client:       client,
		role:         opts.Role,
		model:        opts.Model,
		temperature:  opts.Temperature,
		maxSteps:     opts.MaxSteps,
		systemPrompt: opts.SystemPrompt,
		tools:        tools,
		exec:         opts.Executor,
		log:          logx.Component("runner").With().Str("role", string(opts.Role)).Logger(),
	}, nil
}

// Run executes the loop until the model answers with plain text. Every tool
// round costs one step; exceeding the budget fails the whole task.
func (r *Runner) Run(ctx context.Context, task string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       shared.ChatModel(r.model),
		Temperature: openaisdk.Float(r.temperature),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(r.systemPrompt),
			openaisdk.UserMessage(task),
		},
	}
	if len(r.tools) > 0 {
		params.Tools = r.tools
	}

	for step := 0; step < r.maxSteps; step++ {
		resp, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("%w: role=%s: %v", contractx.ErrModelInvoke, r.role, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: role=%s returned no choices", contractx.ErrSchemaViolation, r.role)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return "", fmt.Errorf("%w: role=%s final reply is empty", contractx.ErrSchemaViolation, r.role)
			}
			return content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			result := r.executeCall(ctx, call.Function.Name, call.Function.Arguments)
			content := result.Output
			if result.Error != "" {
				content = "error: " + result.Error
			}
			params.Messages = append(params.Messages, openaisdk.ToolMessage(content, call.ID))
		}
	}

	return "", fmt.Errorf("%w: role=%s used %d steps without a final reply",
		contractx.ErrStepBudget, r.role, r.maxSteps)
}

func (r *Runner) executeCall(ctx context.Context, name, rawArgs string) contractx.ToolResult {
	args := map[string]any{}
	if trimmed := strings.TrimSpace(rawArgs); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}

	result, err := r.exec(ctx, name, args)
	if err != nil {
		return contractx.ToolResult{Tool: name, Error: err.Error()}
	}

	r.log.Debug().
		Str("tool", name).
		Bool("ok", result.Error == "").
		Msg("tool executed")
	return result
}
