package handler

import (
	"net/http"
	"time"

	"github.com/artemshadrunov/currency-api/internal/rate"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ConvertRequest struct {
	ProviderName string          `json:"providerName" example:"Frankfurter"`
	FromCurrency string          `json:"fromCurrency" example:"USD"`
	ToCurrency   string          `json:"toCurrency" example:"EUR"`
	Amount       decimal.Decimal `json:"amount" example:"100"`
	Timestamp    *time.Time      `json:"timestamp,omitempty" example:"2025-01-02T15:04:05Z"`
}

// Convert godoc
// @Summary Convert an amount
// @Description Converts an amount between two currencies at the rate of the given day
// @Tags Currencies
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} rate.ConversionResult
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse "currency excluded"
// @Failure 404 {object} errorResponse "provider not found"
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /currencies/convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var body ConvertRequest
	if !decodeBody(w, r, &body) {
		return
	}

	ts := h.now()
	if body.Timestamp != nil {
		ts = *body.Timestamp
	}

	res, err := h.service.Convert(r.Context(), rate.ConversionRequest{
		Provider:  body.ProviderName,
		From:      body.FromCurrency,
		To:        body.ToCurrency,
		Amount:    body.Amount,
		Timestamp: ts,
	})
	if err != nil {
		writeServiceError(w, "Convert", err, logrus.Fields{
			"provider": body.ProviderName,
			"from":     body.FromCurrency,
			"to":       body.ToCurrency,
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}
