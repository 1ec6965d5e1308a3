package main

import (
	"context"
	"log"

	"mongo-user-service/cmd/api/app"
	"mongo-user-service/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	application, err := app.New()
	if err != nil {
		return err
	}

	ctx, cancel := server.WithSignal(context.Background())
	defer cancel()

	return application.Run(ctx)
}
