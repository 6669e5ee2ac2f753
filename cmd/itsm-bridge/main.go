package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"itsm-bridge/internal/common/config"
	"itsm-bridge/internal/common/logger"
	"itsm-bridge/internal/common/observability"
	"itsm-bridge/internal/connector"
	"itsm-bridge/internal/itsm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "path to a config file (default: configs/config.yaml lookup)")
	ticketID := flags.String("ticket", "", "ticket identifier for the query command")
	serveMetrics := flags.Bool("metrics", false, "expose prometheus metrics while running")
	flags.Parse(os.Args[2:])

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zapLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown(context.Background())

	if *serveMetrics || cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	conn, err := connector.New(connector.Options{
		Config:        cfg,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("Failed to create connector", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Endpoint.GetTimeout()+10*time.Second)
	defer cancel()

	if err := conn.Connect(ctx); err != nil {
		zapLog.Fatal("Failed to connect", zap.Error(err))
	}
	defer conn.Close()

	switch command {
	case "test":
		if err := conn.Test(ctx); err != nil {
			zapLog.Fatal("Connectivity test failed", zap.Error(err))
		}
		fmt.Println("connectivity test ok")

	case "query":
		if *ticketID == "" {
			zapLog.Fatal("query requires -ticket")
		}
		outcome, err := conn.QueryStatus(ctx, *ticketID)
		if err != nil {
			zapLog.Fatal("Status query failed",
				zap.String("ticket", *ticketID),
				zap.String("outcome", outcome.String()),
				zap.Error(err))
		}
		fmt.Printf("%s: %s\n", *ticketID, outcome)

		// Nonzero exit on a dead ticket, so scripts can branch on it.
		if outcome == itsm.OutcomeFatal {
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(2)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: itsm-bridge <command> [flags]

commands:
  test    run the endpoint connectivity test
  query   query a ticket's status (-ticket <id>)

flags:
  -config <path>   config file path
  -ticket <id>     ticket identifier (query)
  -metrics         expose prometheus metrics
`)
}
