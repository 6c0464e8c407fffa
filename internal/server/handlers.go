package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LoginRequest is the portal login payload.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AnalyzeRequest asks for an on-demand analysis of one target.
type AnalyzeRequest struct {
	Target string `json:"target" validate:"required"`
}

// AddTargetRequest adds a domain to the watchlist.
type AddTargetRequest struct {
	Domain string `json:"domain" validate:"required"`
}

// SignupRequest starts the subscriber verification flow.
type SignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	if !s.passwords.Verify(req.Password) {
		err := &ErrInvalidCredentials{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := s.jwtService.GenerateToken()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	brief, err := s.analyzer.Analyze(r.Context(), req.Target)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("analysis failed: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, brief)
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	targets, err := s.store.ListTargets(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if targets == nil {
		targets = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"targets": targets})
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var req AddTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	domain, err := s.store.AddTarget(r.Context(), req.Domain)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"domain": domain})
}

func (s *Server) handleRemoveTarget(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	if err := s.store.RemoveTarget(r.Context(), domain); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"removed": domain})
}

func (s *Server) handleLatestBrief(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	brief, err := s.store.LatestBrief(r.Context(), domain)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if brief == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no brief found for %s", domain))
		return
	}
	s.jsonResponse(w, http.StatusOK, brief)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	if s.mailer == nil {
		notConfigured := &ErrMailNotConfigured{}
		s.errorResponse(w, HTTPStatus(notConfigured), notConfigured.Error())
		return
	}

	token, err := s.store.CreatePendingVerification(r.Context(), req.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.mailer.SendVerification(req.Email, token.String()); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to send verification email")
		return
	}
	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"message": "Verification email sent. Check your inbox to confirm.",
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(r.URL.Query().Get("token"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid verification token")
		return
	}

	email, err := s.store.VerifyToken(r.Context(), token)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if s.mailer != nil {
		// Welcome email is best effort; the subscription is already active.
		if err := s.mailer.SendWelcome(email); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Subscription confirmed. The daily report will arrive each morning.",
		"email":   email,
	})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "missing email parameter")
		return
	}

	if err := s.store.Unsubscribe(r.Context(), email); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "You have been unsubscribed.",
	})
}

// validationError converts validator errors into the typed request error
// used for status mapping. Only the first failure is reported.
func validationError(err error) *ErrValidation {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid"}
}
