package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"numbot/bot"
	"numbot/catalog"
	"numbot/clock"
	coreconfig "numbot/core/config"
	"numbot/core/logger"
	coretelegram "numbot/core/telegram"
	"numbot/core/telegram/router"
	"numbot/number"
	"numbot/order"
	"numbot/probe"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("numbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	cat := catalog.Default()
	clk := clock.NewSystem()
	metrics := probe.NewMetrics()
	sched := order.NewTimerScheduler()
	notifier := bot.NewNotifier()

	svc := order.NewService(order.Deps{
		Catalog:   cat,
		Numbers:   number.New(nil),
		Orders:    order.NewStore(),
		Leases:    order.NewLeases(clk),
		Scheduler: sched,
		Notifier:  notifier,
		Clock:     clk,
		Metrics:   metrics,
	}, order.Config{
		ConfirmDelay:  cfg.Orders.ConfirmDelay(),
		FollowUpDelay: cfg.Orders.FollowUpDelay(),
		LeaseTTL:      cfg.Orders.LeaseTTL(),
	})
	sched.Bind(svc)

	reg := coretelegram.NewRegistry()
	b := bot.New(cat, svc, cfg.Orders.PaymentURL)
	b.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	probeSrv := probe.NewServer(cfg.Probe.Listen, metrics)

	startedAt := time.Now()
	opts := coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			notifier.Bind(rt.Bot, rt.Dispatcher)
			go probeSrv.Start()
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return probeSrv.Shutdown(shutdownCtx)
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return coretelegram.RunTelegram(ctx, opts)
}
