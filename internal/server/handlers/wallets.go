package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	apperrors "github.com/harulabs/mintgate/internal/errors"
)

// WalletListResponse is returned by the list endpoint.
type WalletListResponse struct {
	Tier    core.Tier          `json:"tier"`
	Count   int                `json:"count"`
	Wallets []core.WalletEntry `json:"wallets"`
}

// addWalletsRequest accepts either a JSON array or the raw textarea contents.
// Both are merged when supplied together.
type addWalletsRequest struct {
	Addresses []string `json:"addresses"`
	Text      string   `json:"text"`
}

type updateAllowanceRequest struct {
	MintsAllowed *int `json:"mints_allowed"`
}

// AllowanceResponse echoes an allowance update.
type AllowanceResponse struct {
	Address      string    `json:"wallet_address"`
	Tier         core.Tier `json:"tier"`
	MintsAllowed int       `json:"mints_allowed"`
}

// ListWallets handles GET /v1/admin/{tier}/wallets.
func (a *API) ListWallets(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	wallets, err := a.Allowlist.ListWallets(r.Context(), tier, r.URL.Query().Get("search"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, WalletListResponse{Tier: tier, Count: len(wallets), Wallets: wallets})
}

// AddWallets handles POST /v1/admin/{tier}/wallets.
func (a *API) AddWallets(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req addWalletsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	lines := append([]string{}, req.Addresses...)
	lines = append(lines, core.SplitAddressLines(req.Text)...)

	result, err := a.Allowlist.AddWallets(r.Context(), tier, lines)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// RemoveWallet handles DELETE /v1/admin/{tier}/wallets/{address}.
func (a *API) RemoveWallet(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := a.Allowlist.RemoveWallet(r.Context(), tier, addressParam(r)); err != nil {
		respondWithError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateAllowance handles PATCH /v1/admin/{tier}/wallets/{address}.
func (a *API) UpdateAllowance(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req updateAllowanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	if req.MintsAllowed == nil {
		respondWithError(w, r, apperrors.NewInvalidInputError("mints_allowed is required"))
		return
	}

	address := addressParam(r)
	if err := a.Allowlist.UpdateAllowance(r.Context(), tier, address, *req.MintsAllowed); err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AllowanceResponse{Address: address, Tier: tier, MintsAllowed: *req.MintsAllowed})
}

// ExportWallets handles GET /v1/admin/{tier}/wallets/export.csv.
func (a *API) ExportWallets(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	data, err := a.Allowlist.ExportCSV(r.Context(), tier)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", allowlist.ExportFilename(tier)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
