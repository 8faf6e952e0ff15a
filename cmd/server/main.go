package main

import (
	"net/http"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/app"
	"github.com/hmtran/classpoints/internal/handlers"
)

func main() {
	_ = godotenv.Load()

	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	mux := handlers.Routes(handlers.NewHandler(service))
	mux.Handle("GET /metrics", promhttp.Handler())

	staticDir := service.Config.Server.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	for _, page := range []struct{ route, file string }{
		{"GET /{$}", "index.html"},
		{"GET /admin", "admin.html"},
		{"GET /user", "user.html"},
		{"GET /overview", "overview.html"},
	} {
		file := filepath.Join(staticDir, page.file)
		mux.HandleFunc(page.route, func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, file)
		})
	}

	logger.Info.Printf("Starting classpoints server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("Server failed: %v", err)
	}
}
