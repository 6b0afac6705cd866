package main

import (
	"context"
	"os"

	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		_ = app.Close(ctx)
		os.Exit(1)
	}

	logger.InfoLog(ctx, "Listening on :%s", app.Config.APP_PORT)
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped: %v", err)
		os.Exit(1)
	}
}
