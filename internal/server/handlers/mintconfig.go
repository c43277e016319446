package handlers

import (
	"net/http"

	"github.com/harulabs/mintgate/internal/mintconfig"
)

// MintConfigResponse adds the derived remaining supply.
type MintConfigResponse struct {
	*mintconfig.Config
	Remaining int `json:"remaining"`
}

// MintConfig handles GET /v1/mint-config.
func (a *API) MintConfig(w http.ResponseWriter, r *http.Request) {
	cfg := a.Mint
	if cfg == nil {
		cfg = mintconfig.Default()
	}
	writeJSON(w, http.StatusOK, MintConfigResponse{Config: cfg, Remaining: cfg.Remaining()})
}
