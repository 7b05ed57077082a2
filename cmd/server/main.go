package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/auth"
	"github.com/jrsteele09/go-login-server/auth/flowrepo"
	"github.com/jrsteele09/go-login-server/internal/config"
	"github.com/jrsteele09/go-login-server/provider"
	"github.com/jrsteele09/go-login-server/server"
	"github.com/jrsteele09/go-login-server/sessions"
)

const sessionSweepInterval = 1 * time.Hour

func main() {
	c := config.New()
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	for {
		if err := run(c); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	sessionRepo := sessions.NewInMemoryRepo(c.GetSessionExpiry())
	flowRepo := flowrepo.NewInMemoryRepo()

	var idp provider.Provider
	if c.ProviderConfigured() {
		google, err := provider.NewGoogle(provider.GoogleConfig{
			ClientID:     c.GetGoogleClientID(),
			ClientSecret: c.GetGoogleClientSecret(),
			RedirectURL:  c.GetOAuthCallbackURL(),
		})
		if err != nil {
			return fmt.Errorf("failed to create Google provider: %w", err)
		}
		idp = google
	} else {
		log.Warn().Msg("Google credentials not set; login routes are disabled")
	}

	authService, err := auth.NewService(idp, sessionRepo, flowRepo,
		auth.WithExchangeTimeout(c.GetProviderTimeout()),
		auth.WithFlowTimeout(c.GetLoginFlowTimeout()),
	)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	srv, err := server.New(c, authService, prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	stopSweep := startSessionSweep(sessionRepo)
	defer stopSweep()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

// startSessionSweep periodically purges expired sessions. Expiry is enforced
// lazily on read; the sweep only reclaims memory.
func startSessionSweep(repo *sessions.InMemoryRepo) (stop func()) {
	ticker := time.NewTicker(sessionSweepInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if removed := repo.DeleteExpired(time.Now()); removed > 0 {
					log.Info().Int("removed", removed).Msg("Swept expired sessions")
				}
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
