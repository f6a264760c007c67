package httpclients

import (
	"context"
	"time"

	"resty.dev/v3"

	"matchpulse/analysis-api/internal/infrastructure/logger"
)

type clientStartsAt struct{}

// NewClient builds a resty client that logs every outbound request with the
// given client name.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), clientStartsAt{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		startTime, _ := r.Request.Context().Value(clientStartsAt{}).(time.Time)

		log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Str("method", r.Request.RawRequest.Method).
			Str("url", r.Request.RawRequest.URL.String()).
			Dur("latency", time.Since(startTime)).
			Msg("HTTP client request")
		return nil
	})
	return client
}
