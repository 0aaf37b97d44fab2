package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comandalivre/opsdesk/internal/alert"
	"github.com/comandalivre/opsdesk/internal/dal/postgres"
	"github.com/comandalivre/opsdesk/internal/otel"
	"github.com/comandalivre/opsdesk/internal/rabbitmq"
	"github.com/comandalivre/opsdesk/internal/service/services/customersvc"
	"github.com/comandalivre/opsdesk/internal/service/services/ordersvc"
	httptransport "github.com/comandalivre/opsdesk/internal/transport/http"
	"github.com/comandalivre/opsdesk/internal/transport/notify"
	"github.com/comandalivre/opsdesk/internal/transport/stream"
	"github.com/comandalivre/opsdesk/internal/worker/liveorders"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	customerSvc    *customersvc.CustomerService
	escalator      *alert.Escalator
	liveWorker     *liveorders.Worker
	transport      *httptransport.HTTPTransport
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)

	customerSvc := customersvc.MustNewCustomerService(
		customersvc.WithPostgresClient(postgresClient),
		customersvc.WithOrdersSource(orderSvc),
	)

	notifier, err := notify.NewNotifier(rabbitMqClient)
	if err != nil {
		panic(err)
	}

	cadence := time.Duration(viper.GetInt("alerts.beep_cadence_ms")) * time.Millisecond
	escalator := alert.NewEscalator(notifier, cadence)

	orderStream, err := stream.NewOrderStream(rabbitMqClient)
	if err != nil {
		panic(err)
	}

	liveWorker := liveorders.NewWorker(
		orderSvc,
		orderStream,
		escalator,
		notifier,
		time.Duration(viper.GetInt("alerts.fallback_poll_seconds"))*time.Second,
		time.Duration(viper.GetInt("alerts.backstop_poll_seconds"))*time.Second,
	)

	transport := httptransport.NewHTTPTransport(orderSvc, customerSvc, escalator, notifier)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		customerSvc:    customerSvc,
		escalator:      escalator,
		liveWorker:     liveWorker,
		transport:      transport,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.orderSvc.Refresh(ctx); err != nil {
		slog.Error("Initial order snapshot load failed", "error", err)
	}

	go func() {
		slog.Info("Starting live orders worker")
		a.liveWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
func (a *App) gracefulShutdown() {
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	a.liveWorker.Stop()
	a.escalator.Acknowledge()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
