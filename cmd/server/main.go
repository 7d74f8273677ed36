package main

import (
	"context"
	"log"

	"github.com/EMNTV/excellencemedianumerique/internal/api"
	"github.com/EMNTV/excellencemedianumerique/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := api.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
