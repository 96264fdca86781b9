package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/internal/rate"
	"github.com/pkg/errors"
)

const genericErrorMessage = "Something went wrong"

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps the session core's error taxonomy onto the HTTP
// surface. Unrecognized errors are logged in full and answered with a
// generic body, never a stack trace.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, interrors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Incorrect email or password"})
	case errors.Is(err, interrors.ErrEmailNotVerified):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Email not verified"})
	case errors.Is(err, interrors.ErrUnauthenticated):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, interrors.ErrRefreshExpired):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Refresh token expired"})
	case errors.Is(err, interrors.ErrForbidden):
		writeJSON(w, http.StatusForbidden, messageResponse{Message: "Forbidden"})
	case errors.Is(err, interrors.ErrAlreadyRegistered):
		writeJSON(w, http.StatusConflict, messageResponse{Message: "User already created"})
	case errors.Is(err, interrors.ErrInvalidInvitation):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid invitation"})
	case errors.Is(err, rate.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: "Too many login attempts"})
	case errors.Is(err, interrors.ErrDeliveryFailed):
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("invitation delivery failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to deliver invitation", Error: true})
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: genericErrorMessage, Error: true})
	}
}

// validationMessage reduces a validator error to the first violated-field
// message, per the uniform 400 policy.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "email":
			return "email must be a valid email address"
		case "oneof":
			return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		}
		return fmt.Sprintf("%s is invalid", field)
	}
	return "invalid request"
}
