package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/server/middleware"
)

type eligibilityRequest struct {
	Address string `json:"address"`
}

// EligibilityResponse is the public verdict for one address.
type EligibilityResponse struct {
	*core.EligibilityStatus
	Eligible bool `json:"eligible"`
}

// CheckEligibility handles POST /v1/eligibility.
func (a *API) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	if a.Eligibility == nil {
		respondWithError(w, r, fmt.Errorf("%w: eligibility checker not configured", core.ErrStoreUnavailable))
		return
	}

	clientKey := middleware.ClientKey(r)
	status, err := a.Eligibility.Check(r.Context(), clientKey, strings.TrimSpace(req.Address))
	if err != nil {
		if errors.Is(err, core.ErrRateLimited) && a.Limiter != nil {
			setRetryAfter(w, a.Limiter.RetryAfter(clientKey))
		}
		respondWithError(w, r, err)
		return
	}

	a.logger().Debug("Eligibility checked",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Bool("is_og", status.IsOG),
		zap.Bool("is_wl", status.IsWL))

	writeJSON(w, http.StatusOK, EligibilityResponse{EligibilityStatus: status, Eligible: status.Eligible()})
}
