package context

import "context"

// HeaderCorrelationID is the request and response header carrying the correlation ID.
const HeaderCorrelationID = "X-Correlation-ID"

type correlationKey struct{}

// WithCorrelationID adds a correlation ID to the context.
// The ID follows a request from the HTTP edge down to the connection scope,
// so every log line of one verification can be grouped.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// GetCorrelationID retrieves the correlation ID from the context.
// Returns an empty string if no correlation ID is present.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}
