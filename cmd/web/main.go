package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"mortalitydash/internal/app"
)

//go:embed all:frontend/*
var frontendFiles embed.FS

// frontendFS strips the embed directory so assets are served from the root
func frontendFS() fs.FS {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		slog.Warn("Frontend embedding failed", slog.String("error", err.Error()))
		return nil
	}
	return sub
}

func main() {
	application, err := app.NewApplication(frontendFS())
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
