// Package handler exposes the wired application as a single serverless
// entry point.
package handler

import (
	"net/http"

	"taskboard/config"
	"taskboard/di"
	_ "taskboard/docs"
	"taskboard/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeService()
	app.Handler().ServeHTTP(w, r)
}
