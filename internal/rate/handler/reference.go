package handler

import (
	"net/http"
)

type GetExcludedCurrenciesResponse struct {
	Codes []string `json:"codes" example:"MXN,PLN,THB,TRY"`
}

type GetProvidersResponse struct {
	Providers []string `json:"providers" example:"Frankfurter,Stub"`
}

// GetExcludedCurrencies godoc
// @Summary List excluded currencies
// @Description Currencies that cannot be used in conversions or historical queries
// @Tags Currencies
// @Produce json
// @Success 200 {object} GetExcludedCurrenciesResponse
// @Router /currencies/excluded [get]
func (h *Handler) GetExcludedCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetExcludedCurrenciesResponse{
		Codes: h.rules.ExcludedCodes(),
	})
}

// GetProviders godoc
// @Summary List rate providers
// @Tags Currencies
// @Produce json
// @Success 200 {object} GetProvidersResponse
// @Router /currencies/providers [get]
func (h *Handler) GetProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetProvidersResponse{
		Providers: h.providers.Names(),
	})
}
