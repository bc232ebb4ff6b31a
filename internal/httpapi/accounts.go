package httpapi

import (
	"context"
	"net/http"

	"github.com/goliatone/go-skillsnap/internal/account"
	"github.com/rs/zerolog"
)

// Accounts is the registration and login collaborator.
type Accounts interface {
	Register(ctx context.Context, req account.RegisterRequest) (account.Session, error)
	Login(ctx context.Context, req account.LoginRequest) (account.Session, error)
}

type accountHandler struct {
	accounts Accounts
	logger   zerolog.Logger
}

func (h *accountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *accountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
