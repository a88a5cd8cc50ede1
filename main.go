// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"smartwiz/cart"
	"smartwiz/config"
	"smartwiz/controllers"
	"smartwiz/events"
	"smartwiz/routes"
	"smartwiz/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		port    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:          "smartwiz",
		Short:        "SmartWiz point-of-sale backend",
		Long:         "Serves the shared cart, its live event feed, payment QR codes and emailed bills.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "[smartwiz] ", log.LstdFlags|log.Lshortfile)

			// Load environment variables from .env file
			if err := config.LoadDotEnv(envFile); err != nil {
				logger.Println("No .env file found. Proceeding with environment variables.")
			}

			cfg := config.Load()
			if port != "" {
				cfg.Port = port
				if os.Getenv("PUBLIC_URL") == "" {
					cfg.PublicURL = "http://localhost:" + port
				}
			}
			return run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	return cmd
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	broker := events.NewBroker()
	store := cart.NewStore(broker)

	mailer, err := utils.NewMailer(cfg.Mail)
	if err != nil {
		return fmt.Errorf("configure mail transport: %w", err)
	}
	emailService := utils.NewEmailService(mailer, cfg.Mail.From, cfg.PublicURL)
	qrGenerator := utils.NewQRGenerator(nil)

	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err := events.NewRabbitCartPublisher(conn)
		if err != nil {
			return fmt.Errorf("create cart publisher: %w", err)
		}
		defer publisher.Close()

		go events.Forward(ctx, broker.Subscribe(), publisher, logger)
		logger.Printf("forwarding cart updates to exchange %s", events.EventsExchange)
	}

	// Initialize controllers
	cartController := controllers.NewCartController(store, logger)
	eventsController := controllers.NewEventsController(store, broker, logger)
	paymentController := controllers.NewPaymentController(qrGenerator, logger)
	billController := controllers.NewBillController(emailService, logger)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, cartController, eventsController, paymentController, billController)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Wrap(router, logger, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Backend server is running on port %s (mail transport: %s)", cfg.Port, mailer.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	// end live feeds first, Shutdown waits for their handlers to return
	broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	logger.Println("server stopped")
	return nil
}
