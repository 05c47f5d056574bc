package main

import (
	"github.com/jessevdk/go-flags"
	"time"
)

type probeConfig struct {
	Address  string        `long:"address" description:"Host and port dialed to decide reachability" default:"1.1.1.1:53"`
	Interval time.Duration `long:"interval" description:"Time between reachability probes" default:"5s"`
	Timeout  time.Duration `long:"timeout" description:"Timeout of a single reachability probe" default:"2s"`
}

type mockApiConfig struct {
	Listen string `long:"listen" description:"Address the mock product API listens on, empty to disable" default:""`
}

type config struct {
	ShowVersion bool           `short:"v" long:"version" description:"Display version information and exit"`
	Debug       bool           `long:"debug" description:"Start in debug mode"`
	Api         string         `long:"api" description:"URL of the product list endpoint" default:"http://localhost:8080/api/v1/products"`
	Net         string         `long:"net" description:"Reachability source" choice:"probe" choice:"mock" default:"probe"`
	AutoHide    time.Duration  `long:"autohide" description:"How long the back online banner stays up" default:"3s"`
	Probe       *probeConfig   `group:"Probe" namespace:"probe"`
	MockApi     *mockApiConfig `group:"Mock API" namespace:"mockapi"`
}

func loadConfig() (*config, error) {
	cfg := config{
		Probe:   &probeConfig{},
		MockApi: &mockApiConfig{},
	}

	if _, err := flags.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
