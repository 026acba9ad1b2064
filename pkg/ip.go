package pkg

import "net/http"

// ReadUserIP extracts the caller address, preferring the reverse proxy
// headers over the raw remote address.
func ReadUserIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		ipAddr = r.Header.Get("X-Forwarded-For")
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}
	return ipAddr
}
