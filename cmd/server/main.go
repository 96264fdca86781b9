package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	accountspg "github.com/jrsteele09/go-task-server/accounts/postgres"
	"github.com/jrsteele09/go-task-server/internal/config"
	"github.com/jrsteele09/go-task-server/internal/db"
	"github.com/jrsteele09/go-task-server/internal/rate"
	"github.com/jrsteele09/go-task-server/invitations"
	invitationspg "github.com/jrsteele09/go-task-server/invitations/postgres"
	"github.com/jrsteele09/go-task-server/notify"
	"github.com/jrsteele09/go-task-server/server"
	"github.com/jrsteele09/go-task-server/session"
	"github.com/jrsteele09/go-task-server/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	displayAppname(c.GetAppName())

	handler, cleanup, err := buildServer(c, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	ctx := context.Background()

	if err := db.RunMigrations(c.GetDatabaseDSN()); err != nil {
		return nil, nil, fmt.Errorf("db.RunMigrations: %w", err)
	}
	pool, err := db.NewPool(ctx, c.GetDatabaseDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("db.NewPool: %w", err)
	}

	accountRepo := accountspg.NewRepo(pool)
	inviteRepo := invitationspg.NewRepo(pool)

	codec, err := token.New(c)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("token.New: %w", err)
	}

	sessions, err := session.NewService(session.Repos{Accounts: accountRepo}, codec, c.GetRefreshPersistExpiry())
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("session.NewService: %w", err)
	}

	var sender notify.Sender
	if c.GetResendAPIKey() != "" {
		sender, err = notify.NewResendSender(c, logger)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("notify.NewResendSender: %w", err)
		}
	} else {
		sender = notify.NewLogSender(logger)
	}

	invites, err := invitations.NewService(inviteRepo, accountRepo, sender, c, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("invitations.NewService: %w", err)
	}

	var limiter *rate.Limiter
	if c.GetRedisAddr() != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
		})
		limiter = rate.New(redisClient, rate.Config{
			EnableIPThrottle: true,
			MaxLoginAttempts: c.GetMaxLoginAttempts(),
			LoginCooldown:    c.GetLoginCooldown(),
		})
	}

	srv, err := server.New(c, server.Deps{
		Sessions:    sessions,
		Invitations: invites,
		Codec:       codec,
		Limiter:     limiter,
	}, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("server.New: %w", err)
	}

	return srv, pool.Close, nil
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
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

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
