package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ringkeeper/internal/admin"
	"github.com/dmitrijs2005/ringkeeper/internal/server"
	"github.com/dmitrijs2005/ringkeeper/internal/server/config"
	"github.com/dmitrijs2005/ringkeeper/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	core, err := server.OpenCore(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := admin.NewApp(core.Users, services.NewImageService(cfg), os.Stdin, os.Stdout)
	err = app.Run(ctx, os.Args[1:])
	if cerr := core.Close(); cerr != nil {
		log.Printf("%v", cerr)
	}

	if err != nil {
		log.Fatalf("%v", err)
	}

}
