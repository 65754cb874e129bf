package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pipecrest/brokerage/internal/server"
	"github.com/pipecrest/brokerage/modules"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/configuration"
	"github.com/pipecrest/brokerage/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	publisher := eventbus.NewEventPublisher(logger)
	// Every domain event gets at least one consumer: an audit trace in
	// the process log. Module-specific subscribers attach on top.
	publisher.Subscribe(func(event any) {
		logger.WithField("event", fmt.Sprintf("%T", event)).Debug("domain event published")
	})

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: publisher,
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.Migrations().Apply(ctx, pool); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	options := &server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	}
	serverInstance, err := server.Default(options)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
