package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// SessionHeader carries the browsing session id in both directions.
const SessionHeader = "X-Session-Id"

// WorkspaceProvider resolves browsing session ids to live workspaces.
type WorkspaceProvider interface {
	NewID() string
	Get(ctx context.Context, id string) (*workspace.Workspace, error)
}

// Workspace attaches the caller's workspace, issuing a new session id when the request has none.
// The id is always echoed back in the X-Session-Id response header.
func Workspace(provider WorkspaceProvider, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				id = provider.NewID()
			}

			ws, err := provider.Get(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			w.Header().Set(SessionHeader, ws.ID)

			ctx := WithWorkspace(r.Context(), ws)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, ws.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
