package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/bjg/skeduleslive-streamlit/internal/telemetry"
	"github.com/bjg/skeduleslive-streamlit/tools"
)

// DefaultMaxRounds bounds the model-call/operation-call loop per user turn.
const DefaultMaxRounds = 8

// DefaultSystemPrompt is the assistant persona sent with every model call.
const DefaultSystemPrompt = "You are an assistant that helps manage SkedulesLive content. You can help create and manage schedules, events, and other content."

// exhaustedReply is appended when a turn hits MaxRounds without the model
// producing a final text-only reply.
const exhaustedReply = "I wasn't able to complete that request within the allowed number of operation rounds. Please try again with a more specific request."

// ProtocolError marks model output the dispatcher could not interpret. It is
// turn-fatal: the turn aborts and no further invocations of the round run.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "model protocol error: " + e.Reason
}

// Runner owns the per-turn dispatch loop: it sends history plus the operation
// catalog to the completion endpoint, routes requested invocations through
// the catalog handlers, folds results back into history, and repeats until
// the model replies in plain text or the round bound is hit.
type Runner struct {
	Client    *anthropic.Client
	Tools     []tools.ToolDefinition
	Model     anthropic.Model
	MaxTokens int64
	MaxRounds int
	System    string

	// OnResult, when set, observes every operation result in execution
	// order. The session layer uses it to mirror results into the rendered
	// transcript.
	OnResult func(op string, failed bool, payload string)
}

// New returns a Runner with the default round bound and system prompt.
func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, model anthropic.Model) *Runner {
	return &Runner{
		Client:    client,
		Tools:     toolDefs,
		Model:     model,
		MaxTokens: 1024,
		MaxRounds: DefaultMaxRounds,
		System:    DefaultSystemPrompt,
	}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunTurn executes one full user turn: it appends the user message to conv,
// loops model decisions and operation rounds up to MaxRounds, and returns the
// augmented conversation plus the final assistant text.
//
// Invocation-level failures are folded into history as failure results and
// never returned as errors. Returned errors are turn-fatal only: completion
// endpoint connectivity, protocol errors, cancellation. On error the caller's
// conversation is unchanged; partial results of a canceled turn are discarded.
func (r *Runner) RunTurn(ctx context.Context, conv []anthropic.MessageParam, userText string) ([]anthropic.MessageParam, string, error) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}
	telemetry.Emit("turn_started", map[string]any{
		"turn_id": turnID,
		"model":   string(r.Model),
	})

	// Work on a copy so a failed turn leaves the caller's history untouched.
	work := make([]anthropic.MessageParam, len(conv), len(conv)+2)
	copy(work, conv)
	work = append(work, anthropic.NewUserMessage(anthropic.NewTextBlock(userText)))

	maxRounds := r.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	for round := 0; round < maxRounds; round++ {
		msg, err := r.Client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     r.Model,
			MaxTokens: r.MaxTokens,
			System:    []anthropic.TextBlockParam{{Text: r.System}},
			Messages:  work,
			Tools:     r.anthropicTools(),
		})
		if err != nil {
			return nil, "", fmt.Errorf("completion endpoint: %w", err)
		}
		telemetry.Emit("model_call", map[string]any{
			"turn_id":     turnID,
			"round":       round,
			"stop_reason": string(msg.StopReason),
		})

		work = append(work, msg.ToParam())

		var text []string
		var uses []anthropic.ToolUseBlock
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				if v.Text != "" {
					text = append(text, v.Text)
				}
			case anthropic.ToolUseBlock:
				uses = append(uses, v)
			}
		}

		// Terminal: the model replied without requesting operations.
		if len(uses) == 0 {
			reply := strings.Join(text, "\n")
			telemetry.Emit("turn_finished", map[string]any{
				"turn_id": turnID,
				"rounds":  round + 1,
			})
			return work, reply, nil
		}

		results, err := r.execRound(ctx, uses)
		if err != nil {
			return nil, "", err
		}
		// Canceled between rounds: completed results are discarded, not
		// appended to a canceled session.
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		work = append(work, anthropic.NewUserMessage(results...))
	}

	work = append(work, anthropic.NewAssistantMessage(anthropic.NewTextBlock(exhaustedReply)))
	telemetry.Emit("turn_finished", map[string]any{
		"turn_id":   turnID,
		"rounds":    maxRounds,
		"exhausted": true,
	})
	return work, exhaustedReply, nil
}

// execRound executes the requested invocations strictly in listed order. A
// later invocation does not start before the former's result exists; the
// model chains identifiers between calls itself, the core chains nothing.
// Every invocation produces exactly one result; a failure never
// short-circuits the rest of the round.
func (r *Runner) execRound(ctx context.Context, uses []anthropic.ToolUseBlock) ([]anthropic.ContentBlockParamUnion, error) {
	results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))
	for _, use := range uses {
		input := json.RawMessage(use.JSON.Input.Raw())
		if len(input) > 0 && !json.Valid(input) {
			return nil, &ProtocolError{Reason: fmt.Sprintf("operation %q arguments are not valid JSON", use.Name)}
		}
		results = append(results, r.execOne(ctx, use.ID, use.Name, input))
	}
	return results, nil
}

// execOne resolves, validates, and invokes a single operation, mapping every
// failure into a failure result rather than an error. The remote service is
// never called for an unknown operation or arguments that fail validation.
func (r *Runner) execOne(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	emit := func(durationMs int64, outcome string, errStr string) {
		fields := map[string]any{
			"op_name":     name,
			"duration_ms": durationMs,
			"outcome":     outcome,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		telemetry.Emit("op_exec", fields)
	}

	start := time.Now()

	result := func(payload string, failed bool) anthropic.ContentBlockParamUnion {
		if r.OnResult != nil {
			r.OnResult(name, failed, payload)
		}
		return anthropic.NewToolResultBlock(id, payload, failed)
	}

	if def == nil {
		emit(time.Since(start).Milliseconds(), "failure", "unknown operation")
		return result(fmt.Sprintf("unknown operation: %s", name), true)
	}

	if err := tools.ValidateInput(input, def.ParamsSchema); err != nil {
		emit(time.Since(start).Milliseconds(), "failure", "invalid arguments")
		return result(fmt.Sprintf("invalid arguments for %s: %v", name, err), true)
	}
	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}

	resp, err := def.Function(ctx, input)
	if err != nil {
		// Generic outcome in telemetry; the detailed message goes to the model.
		emit(time.Since(start).Milliseconds(), "failure", "operation error")
		return result(err.Error(), true)
	}
	emit(time.Since(start).Milliseconds(), "success", "")
	return result(resp, false)
}
