package shared

import "context"

// Context keys for request-scoped data. Keep types unexported to avoid collisions.
type ctxKey string

const (
	ctxKeySearchID ctxKey = "search-id"
)

// WithSearchID tags ctx with the id of one fan-out search.
func WithSearchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySearchID, id)
}

func SearchID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySearchID).(string)
	return v
}
