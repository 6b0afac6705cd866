package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/employee_records/internal/auth"
	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/handler"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

type App struct {
	Echo    *echo.Echo
	Service service.EmployeeService
	Config  *config.EnvConfig

	closers []closer
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

// Initialize loads configuration, opens the store and wires the HTTP layer.
func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	a.Config = config.DefaultEnvConfig

	logger.InitLogging(a.Config.LOG_FILE_PATH, a.Config.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	if err := a.initService(ctx); err != nil {
		return err
	}
	return a.initHTTP()
}

func (a *App) initService(ctx context.Context) error {
	store, closeStore, err := newStore(ctx, a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", a.Config.STORE_DRIVER, err)
	}
	a.closers = append(a.closers, closeStore)
	logger.InfoLog(ctx, "Store %s ready", a.Config.STORE_DRIVER)

	publisher, closePublisher, err := newPublisher(ctx, a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	a.closers = append(a.closers, closePublisher)

	a.Service = service.NewEmployeeService(store, publisher)
	return nil
}

func (a *App) initHTTP() error {
	gate, err := auth.NewGate(a.Config.JWT_SECRET, a.Config.JWT_ALGORITHM, a.Config.TOKEN_TTL)
	if err != nil {
		return fmt.Errorf("failed to configure auth: %w", err)
	}
	if !gate.Enabled() {
		logger.WarnLog(context.Background(), "JWT_SECRET is empty, authentication is disabled")
	}

	exportHandler, err := handler.NewExportHandler(a.Service, a.Config.EXPORT_CONFIG_PATH)
	if err != nil {
		return err
	}

	a.RegisterMiddlewares()
	handler.RegisterRoutes(a.Echo, handler.Handlers{
		Employee: handler.NewEmployeeHandler(a.Service),
		Export:   exportHandler,
		Auth:     handler.NewAuthHandler(gate),
		Gate:     gate,
	})
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HTTPErrorHandler = serviceutils.HTTPErrorHandler
	a.Echo.Use(handler.RequestID())
	a.Echo.Use(handler.AccessLog())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

// Run serves until SIGINT or SIGTERM, then drains requests for at most
// SHUTDOWN_TIMEOUT and releases the store.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(":" + a.Config.APP_PORT); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.InfoLog(context.Background(), "Shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return errors.Join(runErr, a.Close(shutdownCtx))
}

// Close releases store and publisher connections in reverse order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
