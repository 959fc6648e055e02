package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mamezou-tech/opcua-sample/sampleserver"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := sampleserver.DefaultConfig()
	var (
		users     = flag.String("users", "", "comma separated 'name:password' pairs allowed to log in, in addition to anonymous users")
		telemetry = flag.Bool("telemetry", false, "print method call spans and metrics to stdout")
		verbose   = flag.Bool("v", false, "log each method call")
		pprof     = flag.String("pprof", "", "serve /debug/pprof/ at this address, e.g. 'localhost:6060'")
	)
	flag.StringVar(&cfg.EndpointURL, "endpoint", cfg.EndpointURL, "endpoint url of the server")
	flag.StringVar(&cfg.PKIDir, "pki", cfg.PKIDir, "directory of the server certificate and key, created if not found")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	cfg.Logger = log

	var err error
	if cfg.Users, err = sampleserver.ParseUsers(*users); err != nil {
		log.WithError(err).Error("Error parsing users.")
		os.Exit(1)
	}

	if *pprof != "" {
		// open http://localhost:6060/debug/pprof/ in your browser.
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	// stopTelemetry flushes pending spans and metrics; it must run before os.Exit.
	stopTelemetry := func() {}
	if *telemetry {
		shutdown, err := sampleserver.StartTelemetry(os.Stdout, 10*time.Second)
		if err != nil {
			log.WithError(err).Error("Error starting telemetry.")
			os.Exit(1)
		}
		stopTelemetry = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.WithError(err).Warn("Error stopping telemetry.")
			}
		}
	}

	srv, err := sampleserver.New(cfg)
	if err != nil {
		log.WithError(err).Error("Error creating server.")
		stopTelemetry()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log.Println("Press Ctrl-C to exit...")
	err = srv.Run(ctx)
	stop()
	stopTelemetry()
	if err != nil {
		log.WithError(err).Error("Error running server.")
		os.Exit(1)
	}
}
