package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-task-server/accounts"
	"github.com/jrsteele09/go-task-server/token"
)

// RequireAdmin gates a route behind a bearer access token carrying the admin
// role. The session core produces the role claim; this filter enforces it.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Missing access token"})
			return
		}

		identity, err := s.codec.Verify(raw, token.KindAccess)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Invalid or expired access token"})
			return
		}

		if identity.Role != string(accounts.RoleAdmin) {
			writeJSON(w, http.StatusForbidden, messageResponse{Message: "Forbidden"})
			return
		}

		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
