package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poweringforward/poweringforward/internal/config"
	"github.com/poweringforward/poweringforward/internal/dashboard"
)

const usage = `Powering Forward - renewable generation growth dashboard

Usage:
  poweringforward [serve] [-data file] [-addr host:port]
  poweringforward prepare -data organised_Gen.csv -out data/eia_renewable_data.csv
  poweringforward report  -data file -out report.xlsx [-charts dir] [-summary report.md]
  poweringforward analyze -data file [-sample] [-pretty]
  poweringforward sample  -out data/eia_renewable_data.csv

Every command also accepts -sheet, -min-year, -max-year, -producer and -all-sources.

Environment:
  PF_DATA_PATH, PORT, PF_SHEET, PF_MIN_YEAR, PF_MAX_YEAR, PF_PRODUCER,
  PF_ALL_SOURCES, PF_SHUTDOWN_TIMEOUT, SENTRY_DSN, GIN_MODE
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Println("error: ", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(args)
	case "prepare":
		return prepare(args)
	case "report":
		return writeReport(args)
	case "analyze":
		return analyze(args, stdout)
	case "sample":
		return sample(args)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fmt.Fprintf(fs.Output(), "\nFlags for %s:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

func serve(args []string) error {
	cfg, err := config.Load(newFlagSet("serve"), args)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Mode)

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app, err := dashboard.New(shutdown, cfg)
	if err != nil {
		return err
	}

	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("⚡ dashboard for %s listening on %s", cfg.DataPath, cfg.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("starting server: %w", err)

	case sig := <-shutdown:
		log.Printf("%v : start shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown did not complete in %v", cfg.ShutdownTimeout)
			if closeErr := server.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server gracefully: %w", closeErr)
			}
		}
	}
	return nil
}
