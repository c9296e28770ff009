package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finwatch/ipo-alert/internal/config"
	"github.com/finwatch/ipo-alert/internal/fetch"
	"github.com/finwatch/ipo-alert/internal/notify"
	"github.com/finwatch/ipo-alert/internal/scheduler"
	"github.com/finwatch/ipo-alert/internal/service"
	"github.com/finwatch/ipo-alert/pkg/logger"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ipo-alert",
		Short: "Daily US IPO offer-amount monitor",
		Long: `Fetches the day's IPO calendar, filters listings whose offer
amount exceeds the configured threshold and emails an HTML report.`,
		SilenceUsage: true,
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one fetch-evaluate-notify cycle and exit",
		Long: `Runs the monitor once. Zero qualifying IPOs is a normal outcome;
the exit code is non-zero only when the report could not be delivered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce()
		},
	}

	var scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Run the monitor daily at the configured time",
		Long: `Keeps the process alive and fires the monitor once per day at
RUN_AT in the trigger timezone. A failed run is logged and the loop
survives to the next occurrence. Stop with SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler()
		},
	}

	var nextCmd = &cobra.Command{
		Use:   "next",
		Short: "Print the next scheduled fire time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printNext()
		},
	}

	rootCmd.AddCommand(runCmd, scheduleCmd, nextCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *service.Monitor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment == "development"); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	fetcher := fetch.NewCalendarClient(cfg.FinnhubBaseURL, cfg.FinnhubToken, cfg.FetchTimeout)
	notifier := notify.NewSMTPNotifier(
		cfg.SMTPServer,
		cfg.SMTPPort,
		cfg.SenderEmail,
		cfg.SenderPassword,
		cfg.ReceiverEmail,
		cfg.SendTimeout,
	)

	monitor := service.NewMonitor(
		fetcher,
		notifier,
		cfg.OfferThreshold,
		cfg.MarketLocation(),
		cfg.TriggerLocation(),
	)

	return cfg, monitor, nil
}

func runOnce() error {
	_, monitor, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	return monitor.Run(context.Background())
}

func runScheduler() error {
	cfg, monitor, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	hour, minute, err := config.ParseRunAt(cfg.RunAt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutdown signal received")
		cancel()
	}()

	var app *fiber.App
	if cfg.MetricsEnabled {
		app = metricsApp()
		go func() {
			if err := app.Listen(cfg.MetricsAddr); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	trigger := scheduler.NewTrigger(cfg.TriggerLocation(), hour, minute, monitor.Run)
	trigger.Start(ctx)

	if app != nil {
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}

	return nil
}

func printNext() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hour, minute, err := config.ParseRunAt(cfg.RunAt)
	if err != nil {
		return err
	}

	now := time.Now().In(cfg.TriggerLocation())
	next := scheduler.NextRun(now, hour, minute)

	fmt.Printf("next run: %s (in %s)\n", next.Format("2006-01-02 15:04:05 MST"), next.Sub(now).Round(time.Second))
	return nil
}

func metricsApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "ipo-alert",
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
