package handlers

import "net/http"

// Metrics serves the Prometheus exposition of the relay collector.
func (a *App) Metrics(w http.ResponseWriter, r *http.Request) {
	a.Collector.Handler().ServeHTTP(w, r)
}
