package handler

import (
	"net/http"
	"time"

	"github.com/artemshadrunov/currency-api/internal/rate"
	"github.com/sirupsen/logrus"
)

type LatestRatesRequest struct {
	ProviderName     string     `json:"providerName" example:"Frankfurter"`
	BaseCurrency     string     `json:"baseCurrency" example:"USD"`
	TargetCurrencies []string   `json:"targetCurrencies" example:"EUR,GBP"`
	Timestamp        *time.Time `json:"timestamp,omitempty"`
}

// GetLatestRates godoc
// @Summary Rates of a base currency
// @Description Rates for each target currency; excluded targets and the base itself are skipped
// @Tags Currencies
// @Accept json
// @Produce json
// @Param request body LatestRatesRequest true "Latest rates request"
// @Success 200 {object} rate.LatestRatesResult
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /currencies/latest [post]
func (h *Handler) GetLatestRates(w http.ResponseWriter, r *http.Request) {
	var body LatestRatesRequest
	if !decodeBody(w, r, &body) {
		return
	}

	ts := h.now()
	if body.Timestamp != nil {
		ts = *body.Timestamp
	}

	res, err := h.service.GetLatestRates(r.Context(), rate.LatestRatesRequest{
		Provider:  body.ProviderName,
		Base:      body.BaseCurrency,
		Targets:   body.TargetCurrencies,
		Timestamp: ts,
	})
	if err != nil {
		writeServiceError(w, "GetLatestRates", err, logrus.Fields{
			"provider": body.ProviderName,
			"base":     body.BaseCurrency,
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}
