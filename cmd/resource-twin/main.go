package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/knakk/fenster-contract-tests/twin"
)

func main() {
	var (
		port         int
		baseURI      string
		seedFile     string
		rootRedirect string
		verbose      bool
	)
	fs := flag.NewFlagSet("resource-twin", flag.ExitOnError)
	fs.IntVar(&port, "port", 8080, "HTTP listen port")
	fs.StringVar(&baseURI, "base-uri", "http://data.deichman.no", "base URI that request paths are appended to")
	fs.StringVar(&seedFile, "seed-file", "", "YAML file with additional resources")
	fs.StringVar(&rootRedirect, "root-redirect", "", "where to redirect requests for /")
	fs.BoolVar(&verbose, "verbose", false, "log every request")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	store := twin.NewMemoryStore()
	store.Put(twin.DefaultResource(baseURI))
	if seedFile != "" {
		if err := store.LoadSeed(seedFile, baseURI); err != nil {
			logger.Error("failed to load seed data", "err", err)
			os.Exit(1)
		}
	}

	logger.Debug("resources loaded", "uris", store.URIs())

	server := twin.NewServer(twin.Config{
		BaseURI:        baseURI,
		RootRedirectTo: rootRedirect,
		Logger:         logger,
	}, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx, fmt.Sprintf(":%d", port)); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
