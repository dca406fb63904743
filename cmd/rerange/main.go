package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/rerange/internal/buildinfo"
	"github.com/dmitrijs2005/rerange/internal/cli"
	"github.com/dmitrijs2005/rerange/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
