package httpapi

import "net/http"

// Health is the liveness/readiness endpoint's simplest form: if the process
// can serve HTTP, it answers. No dependency checks.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK"))
}

// HealthLive mirrors Health; split out so a load balancer's liveness probe
// and readiness probe can be pointed at distinct paths even though this
// service's readiness today is identical to its liveness.
func HealthLive(w http.ResponseWriter, _ *http.Request) {
	Health(w, nil)
}

// HealthReady is the readiness probe. A pool ping could be added here if a
// future revision needs to report database reachability separately from
// process liveness.
func HealthReady(w http.ResponseWriter, _ *http.Request) {
	Health(w, nil)
}
