package handlers

import (
	"net/http"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /v1/auth/sign-in.
func (a *API) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	if a.Auth == nil {
		respondWithError(w, r, auth.ErrAuthUnavailable)
		return
	}

	session, err := a.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	a.Audit.Record(r.Context(), audit.Event{
		Action:  audit.ActionSignIn,
		Actor:   session.Email,
		Subject: session.UserID,
	})
	writeJSON(w, http.StatusOK, session)
}
