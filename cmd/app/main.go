package main

import (
	"taskboard/config"
	"taskboard/di"
	_ "taskboard/docs"
	"taskboard/shared/logger"
)

// @title Taskboard API
// @version 1.0.0
// @description Task tracking service with browser pages and a JSON API over one Postgres table.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
