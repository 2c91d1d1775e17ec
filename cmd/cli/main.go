package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/docsmith/internal/buildinfo"
	"github.com/dmitrijs2005/docsmith/internal/client/cli"
	"github.com/dmitrijs2005/docsmith/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewAppFromConfig(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := app.Close(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	app.Run(ctx)

}
