// Command cgiserve runs the HTTP/1.x origin server with a CGI/1.1
// gateway: serve static files under a document root, and hand off any
// request under the dynamic directory to an executable script.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"cgiserve/internal/config"
	"cgiserve/internal/logging"
	"cgiserve/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults built in if unset)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	log := logging.New(*debug)

	var cfg *config.ServerConfig
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		log.Info("no -config given, using built-in defaults")
	}

	srv := server.New(cfg, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server exited")
		}
	case sig := <-sigCh:
		log.WithField("signal", sig).Info("received shutdown signal")
		if err := srv.Close(); err != nil {
			log.WithError(err).Warn("error closing listener")
		}
		<-errCh
	}

	log.Info("server stopped")
}
