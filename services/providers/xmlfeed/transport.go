package xmlfeed

import (
	"net/http"
	"time"
)

// HTTPClient is shared by all provider calls. It has no overall timeout of its
// own; each call is bounded by its context.
var HTTPClient = &http.Client{
	Transport: newTransport(),
}

// newTransport clones the default transport with pool limits sized for fan-out
// to many hosts at once.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.MaxConnsPerHost = 50
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}
