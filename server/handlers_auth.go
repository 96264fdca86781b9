package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/internal/rate"
	"github.com/pkg/errors"
)

// refreshCookieName is the contract with clients: the refresh token only
// ever travels in this HTTP-only cookie, never a JSON body.
const refreshCookieName = "refreshToken"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginHandler authenticates credentials and starts a session. The response
// body carries the access token; the refresh token is set as a cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		ip := clientIP(r)
		if err := s.checkLoginRate(r, req.Email, ip); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		result, err := s.sessions.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, interrors.ErrInvalidCredentials) {
				s.recordFailedLogin(r, req.Email, ip)
			}
			s.writeServiceError(w, r, err)
			return
		}
		s.resetLoginRate(r, req.Email, ip)

		s.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)
		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: result.AccessToken})
	}
}

// RefreshHandler exchanges the refresh cookie for a new access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil {
			// No credential presented at all: 401, no body detail.
			s.writeServiceError(w, r, interrors.ErrUnauthenticated)
			return
		}

		accessToken, err := s.sessions.Refresh(r.Context(), cookie.Value)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: accessToken})
	}
}

// LogoutHandler invalidates the stored refresh token and clears the cookie.
// It never fails the caller over a missing, stale, or garbage cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := ""
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			raw = cookie.Value
		}

		cleared, err := s.sessions.Logout(r.Context(), raw)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if !cleared {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		s.clearRefreshCookie(w)
		w.WriteHeader(http.StatusOK)
	}
}

// RegisterHandler consumes an invitation token and creates the account.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		if err := accounts.ValidatePasswordStrength(req.Password); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}

		if err := s.invites.Register(r.Context(), r.PathValue("token"), req.Password); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "User created"})
	}
}

// decodeAndValidate decodes a JSON body into dst and applies the struct's
// validation tags, writing the uniform 400 response on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid JSON payload"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: validationMessage(err)})
		return false
	}
	return true
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, rawToken string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    rawToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// Rate limiting is best effort: a down redis logs a warning rather than
// locking everyone out.
func (s *Server) checkLoginRate(r *http.Request, email, ip string) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.CheckLogin(r.Context(), email, ip)
	if errors.Is(err, rate.ErrRedisUnavailable) {
		s.logger.Warn().Err(err).Msg("rate limiter unavailable")
		return nil
	}
	return err
}

func (s *Server) recordFailedLogin(r *http.Request, email, ip string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.IncrementLogin(r.Context(), email, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
		s.logger.Warn().Err(err).Msg("failed to record login attempt")
	}
}

func (s *Server) resetLoginRate(r *http.Request, email, ip string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.ResetLogin(r.Context(), email, ip); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reset login attempts")
	}
}
