package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserIDKey is the context key for the requesting participant's id.
	UserIDKey ContextKey = "user_id"
)

// RequireUser resolves the requesting participant from the X-Participant-ID
// header and stores it in the request context. The id is the same opaque
// token used everywhere else; it is never read from a global.
//
// This stands in for real session auth: the gateway in front of this
// service is expected to authenticate and forward the participant id.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Participant-ID")
		if raw == "" {
			response.Unauthorized(w, "X-Participant-ID header required")
			return
		}
		if _, err := uuid.Parse(raw); err != nil {
			response.Unauthorized(w, "X-Participant-ID must be a valid UUID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, split.ParticipantID(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the requesting participant's id from the context.
func GetUserID(ctx context.Context) (split.ParticipantID, bool) {
	id, ok := ctx.Value(UserIDKey).(split.ParticipantID)
	return id, ok
}

// WithUserID returns a context carrying the participant id; used by tests
// and internal callers.
func WithUserID(ctx context.Context, id split.ParticipantID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
