package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/thedemo/productsd/connectivity"
	"github.com/thedemo/productsd/mockapi"
	"github.com/thedemo/productsd/product"
	"github.com/thedemo/productsd/screen"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"
)

var (
	// commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// productsdMain is the true entry point for productsd. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func productsdMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	// Serve the fixture product list locally if requested
	if cfg.MockApi.Listen != "" {
		api := mockapi.New(&mockapi.Config{
			Log: subsystemLogger("mockapi"),
		})

		lis, err := net.Listen("tcp", cfg.MockApi.Listen)
		if err != nil {
			return errors.Errorf("Could not listen on %v: %v", cfg.MockApi.Listen, err)
		}

		go func() {
			err := api.Serve(lis)
			if err != nil {
				log.Errorf("Could not serve mock api: %v", err)
			}
		}()

		defer func() {
			err := lis.Close()
			if err != nil {
				log.Errorf("Could not close mock api listener: %v", err)
			}
		}()

		log.Infof("Serving mock product api on %v", lis.Addr())
	}

	// The reachability source
	var reporter connectivity.Reporter
	var mock *connectivity.MockReporter

	switch cfg.Net {
	case "probe":
		probe, err := connectivity.NewProbeReporter(&connectivity.ProbeConfig{
			Address:  cfg.Probe.Address,
			Interval: cfg.Probe.Interval,
			Timeout:  cfg.Probe.Timeout,
			Logger:   subsystemLogger("connectivity"),
		})
		if err != nil {
			return errors.Errorf("Could not create reachability probe: %v", err)
		}

		if err := probe.Start(); err != nil {
			return errors.Errorf("Could not start reachability probe: %v", err)
		}

		defer func() {
			err := probe.Stop()
			if err != nil {
				log.Errorf("Could not properly stop reachability probe: %v", err)
			} else {
				log.Info("Stopped reachability probe.")
			}
		}()

		reporter = probe

		log.Infof("Created reachability probe for %v.", cfg.Probe.Address)
	case "mock":
		mock = connectivity.NewMockReporter(connectivity.Online, subsystemLogger("connectivity"))
		reporter = mock

		log.Info("Created a mock reachability source.")
	default:
		return errors.Errorf("Unknown networking type %v", cfg.Net)
	}

	fetcher := product.NewHttpFetcher(&product.Config{
		Endpoint: cfg.Api,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Logger:   subsystemLogger("product"),
	})

	log.Infof("Loading products from %v", cfg.Api)

	// central controller for everything the screen does
	controller, err := screen.NewController(&screen.Config{
		Fetcher:  fetcher,
		Reporter: reporter,
		View:     &consoleView{log: subsystemLogger("view")},
		AutoHide: cfg.AutoHide,
		Logger:   subsystemLogger("screen"),
	})
	if err != nil {
		return errors.Errorf("Could not create products screen: %v", err)
	}

	log.Info("Created products screen.")

	go readGestures(os.Stdin, controller, mock)

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping products screen...")
		controller.Shutdown()
	}()

	// blocks until the screen is shut down
	err = controller.Run()
	if err != nil {
		return errors.Errorf("Failed running products screen: %v", err)
	}

	// finish with no error
	return nil
}

// subsystemLogger derives a subsystem's logger from the standard logger so
// it follows the configured level and output.
func subsystemLogger(system string) *log.Entry {
	return log.WithField("system", system)
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := productsdMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running productsd.")
		}
		os.Exit(1)
	}
}
