package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophid/internal/client/cli"
	"github.com/dmitrijs2005/gophid/internal/client/client"
	"github.com/dmitrijs2005/gophid/internal/client/config"
)

func main() {

	cfg, args, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	api, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		log.Fatalf("client init error: %v", err)
	}

	code := cli.NewApp(cfg, api).Run(context.Background(), args)
	_ = api.Close()
	os.Exit(code)

}
