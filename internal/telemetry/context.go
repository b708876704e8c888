package telemetry

import "context"

type turnIDKey struct{}

// WithTurnID tags ctx with a dispatch-turn identifier so events emitted by
// the model loop and the operation handlers correlate in the JSONL stream.
// A nil ctx starts from context.Background().
func WithTurnID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnIDKey{}, id)
}

// TurnIDFromContext extracts the turn identifier set by WithTurnID.
// The second return is false when none was set or it was empty.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(turnIDKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
