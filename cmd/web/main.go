// Command web runs the stock dashboard server with the embedded frontend.
package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"stockdash/internal/app"
)

//go:embed all:web
var frontendFiles embed.FS

func main() {
	frontendFS, err := fs.Sub(frontendFiles, "web")
	if err != nil {
		slog.Error("frontend embedding failed", slog.String("error", err.Error()))
		frontendFS = nil
	}

	application, err := app.NewApplication(frontendFS)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
