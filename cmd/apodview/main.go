package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/apodview/pkg/apod"
	"github.com/umputun/apodview/pkg/config"
	"github.com/umputun/apodview/pkg/viewer"
	"github.com/umputun/apodview/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string        `short:"c" long:"config" env:"CONFIG" description:"optional yaml config file, its values override flags"`
	Listen  string        `short:"l" long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"http server timeout"`
	BaseURL string        `long:"base-url" env:"BASE_URL" default:"http://localhost:8080" description:"external address used in rss links"`

	Feed struct {
		URL     string        `long:"url" env:"URL" default:"https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json" description:"apod feed url"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"15s" description:"feed request timeout"`
		Retries int           `long:"retries" env:"RETRIES" default:"3" description:"attempts on transport errors"`
	} `group:"feed" namespace:"feed" env-namespace:"FEED"`

	Loading struct {
		Min     time.Duration `long:"min" env:"MIN" default:"800ms" description:"minimum time the loading indicator is shown"`
		Message string        `long:"message" env:"MESSAGE" description:"loading indicator text"`
	} `group:"loading" namespace:"loading" env-namespace:"LOADING"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting apodview version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

// run wires the feed client, the viewer and the http server, blocks until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	client := apod.NewHTTPClient(apod.Config{
		URL:       cfg.Feed.URL,
		Timeout:   cfg.Feed.Timeout,
		Retries:   cfg.Feed.Retries,
		UserAgent: cfg.Feed.UserAgent,
	})
	v := viewer.New(client, viewer.Config{MinLoading: cfg.Loading.MinVisible, LoadingMessage: cfg.Loading.Message})

	srv, err := server.New(cfg, v, server.Params{
		Version:        revision,
		Debug:          opts.Debug,
		LoadingMessage: cfg.Loading.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to make server: %w", err)
	}

	log.Printf("[INFO] feed %s, timeout %v, retries %d", cfg.Feed.URL, cfg.Feed.Timeout, cfg.Feed.Retries)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig makes the config from flags, with the optional file on top
func loadConfig(opts Opts) (*config.Config, error) {
	base := config.Config{}
	base.Server.Listen = opts.Listen
	base.Server.Timeout = opts.Timeout
	base.Server.BaseURL = opts.BaseURL
	base.Feed.URL = opts.Feed.URL
	base.Feed.Timeout = opts.Feed.Timeout
	base.Feed.Retries = opts.Feed.Retries
	base.Loading.MinVisible = opts.Loading.Min
	base.Loading.Message = opts.Loading.Message

	if opts.Config != "" {
		cfg, err := config.Load(opts.Config, base)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	base.SetDefaults()
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &base, nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
