// Package handler serves the currency endpoints as JSON.
//
// The @-annotations on each handler are swag comments. Run
// `swag init -g internal/rate/handler/handler.go -o docs` to generate the OpenAPI files;
// the service itself does not serve them.
//
// @title Currency API
// @version 1.0
// @BasePath /api/v1
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/artemshadrunov/currency-api/internal/rate"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 4096

type Service interface {
	Convert(ctx context.Context, req rate.ConversionRequest) (*rate.ConversionResult, error)
	GetLatestRates(ctx context.Context, req rate.LatestRatesRequest) (*rate.LatestRatesResult, error)
	GetHistoricalRates(ctx context.Context, req rate.HistoricalRatesRequest) (*rate.PagedRatesResult, error)
}

type ProviderCatalog interface {
	Names() []string
}

type ExclusionList interface {
	ExcludedCodes() []string
}

type Handler struct {
	service   Service
	providers ProviderCatalog
	rules     ExclusionList
	now       func() time.Time
}

func NewRateHandler(service Service, providers ProviderCatalog, rules ExclusionList) *Handler {
	return &Handler{service: service, providers: providers, rules: rules, now: time.Now}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps the error taxonomy to a status code. Client errors echo the message;
// upstream and internal failures are logged and answered with a generic one.
func writeServiceError(w http.ResponseWriter, handlerName string, err error, fields logrus.Fields) {
	var msg string
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrCurrencyExcluded):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, domain.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, domain.ErrUpstream):
		status, msg = http.StatusBadGateway, "rate provider returned an unusable response"
	case errors.Is(err, domain.ErrTransport):
		status, msg = http.StatusServiceUnavailable, "rate provider is unavailable, try again later"
	default:
		msg = "ups, couldn't process the request this time"
	}

	logrus.WithError(err).WithFields(fields).WithField("handler", handlerName).Error(msg)
	writeError(w, status, msg)
}

// parseDate accepts yyyy-MM-dd or RFC 3339.
func parseDate(s string) (time.Time, error) {
	if t, err := domain.ParseDay(s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
