package main

import (
	"context"
	"log"
	"os"

	"github.com/osamanazar47/alx-files-manager/internal/server"
	"github.com/osamanazar47/alx-files-manager/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewWorkerApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
