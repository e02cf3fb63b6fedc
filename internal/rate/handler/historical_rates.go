package handler

import (
	"net/http"

	"github.com/artemshadrunov/currency-api/internal/rate"
	"github.com/sirupsen/logrus"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type HistoricalRatesRequest struct {
	ProviderName   string `json:"providerName" example:"Frankfurter"`
	BaseCurrency   string `json:"baseCurrency" example:"USD"`
	TargetCurrency string `json:"targetCurrency" example:"EUR"`
	Start          string `json:"start" example:"2025-01-01"`
	End            string `json:"end" example:"2025-01-31"`
	Page           *int   `json:"page,omitempty" example:"1"`
	PageSize       *int   `json:"pageSize,omitempty" example:"10"`
}

// GetHistoricalRates godoc
// @Summary Paged daily rates
// @Description Daily rates of a pair for a date range within the last year
// @Tags Currencies
// @Accept json
// @Produce json
// @Param request body HistoricalRatesRequest true "Historical rates request"
// @Success 200 {object} rate.PagedRatesResult
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /currencies/history [post]
func (h *Handler) GetHistoricalRates(w http.ResponseWriter, r *http.Request) {
	var body HistoricalRatesRequest
	if !decodeBody(w, r, &body) {
		return
	}

	start, err := parseDate(body.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be a date in yyyy-MM-dd format")
		return
	}
	end, err := parseDate(body.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be a date in yyyy-MM-dd format")
		return
	}

	page, pageSize := defaultPage, defaultPageSize
	if body.Page != nil {
		page = *body.Page
	}
	if body.PageSize != nil {
		pageSize = *body.PageSize
	}

	res, err := h.service.GetHistoricalRates(r.Context(), rate.HistoricalRatesRequest{
		Provider: body.ProviderName,
		Base:     body.BaseCurrency,
		Target:   body.TargetCurrency,
		Start:    start,
		End:      end,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeServiceError(w, "GetHistoricalRates", err, logrus.Fields{
			"provider": body.ProviderName,
			"base":     body.BaseCurrency,
			"target":   body.TargetCurrency,
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}
