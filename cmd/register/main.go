package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"registration-agent/internal/di"
	"registration-agent/internal/infrastructure/env"
)

func main() {
	os.Exit(run())
}

func run() int {
	envService := env.NewEnvService()

	container, err := di.NewContainer(di.LoadConfig(envService))
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return 1
	}
	defer container.Close()

	for _, note := range envService.Notes() {
		container.Logger.Info("Configuration", "note", note)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := container.Runner.Run(ctx, envService.Profile())
	container.UI.ShowReport(ctx, report)
	if err != nil {
		container.Logger.Error("Registration failed", "error", err)
		container.UI.ShowError(ctx, err.Error())
		return 1
	}

	container.Logger.Info("Registration finished", "state", report.State, "outcome", report.Outcome)
	return 0
}
