package core

import "context"

type turnIDKey struct{}

// WithTurnID tags ctx with the correlation id of the message being handled.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, id)
}

func TurnID(ctx context.Context) string {
	id, _ := ctx.Value(turnIDKey{}).(string)
	return id
}
