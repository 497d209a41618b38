/* models.go
 * Contains the web server configuration and the response envelope
 * Authors: knockout-pool contributors
 */

package web

import (
	"knockout-pool/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API
	// LoginRatePerMinute limits register and login attempts per client IP. Zero disables the limit
	LoginRatePerMinute int
	// TrustedProxies lists the proxy addresses or CIDRs whose X-Forwarded-For header is believed. Empty trusts none
	TrustedProxies []string
}

// Server is the HTTP server that handles pool requests
type Server struct {
	api     *api.API
	limiter *ipLimiter
}

// Response is the body of every reply. Error is set on failures, Data on successes that return something
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}
