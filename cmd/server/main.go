package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ringkeeper/internal/server"
	"github.com/dmitrijs2005/ringkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("config error: %v", err)
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
