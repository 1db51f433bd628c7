package main

import (
	"context"
	"log"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
