package service

import (
	"net/http"
	"time"
)

// NewHTTPClient creates an optimized HTTP client with connection pooling.
// A zero timeout means no overall deadline; generation calls rely on
// this so a stalled upstream stalls only the job that called it.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableCompression:  false,
		},
	}
}
