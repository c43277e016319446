package handlers

import (
	"net/http"
	"strconv"

	"github.com/harulabs/mintgate/internal/audit"
	apperrors "github.com/harulabs/mintgate/internal/errors"
)

// AuditListResponse wraps recent audit events.
type AuditListResponse struct {
	Events []audit.Event `json:"events"`
}

// ListAuditEvents handles GET /v1/admin/audit?limit=N.
func (a *API) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, r, apperrors.NewInvalidInputError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	events, err := a.Audit.List(r.Context(), limit)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, http.StatusOK, AuditListResponse{Events: events})
}
