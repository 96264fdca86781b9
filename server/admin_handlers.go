package server

import (
	"net/http"

	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/pkg/errors"
)

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=admin user"`
}

type inviteResponse struct {
	Link string `json:"link"`
}

// InviteHandler issues a one-time registration token and emails the link.
// A pending invitation answers 204 so admin retries stay idempotent.
func (s *Server) InviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inviteRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		result, err := s.invites.Invite(r.Context(), req.Email, req.Name, accounts.RoleType(req.Role))
		if err != nil {
			// On this route an existing account is a caller mistake, not a
			// registration conflict.
			if errors.Is(err, interrors.ErrAlreadyRegistered) {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "User already exists"})
				return
			}
			s.writeServiceError(w, r, err)
			return
		}

		if result.AlreadyInvited {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, inviteResponse{Link: result.Link})
	}
}
