// Package handler exposes the service as a single serverless function.
package handler

import (
	"net/http"

	"stay/config"
	"stay/di"
	"stay/shared/logger"
)

var server = initServer()

func initServer() http.Handler {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	return di.InitializeService()
}

// Handler is invoked once per request; the service is built once per
// instance and reused across warm invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
