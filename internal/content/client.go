package content

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewSafeClient builds the HTTP client used against the content site.
// The dialer validates resolved addresses, so requests to private,
// loopback and link-local ranges fail even after DNS rebinding.
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}
