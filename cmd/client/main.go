package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/fanbox/internal/client/cli"
	"github.com/dmitrijs2005/fanbox/internal/client/config"
	"github.com/dmitrijs2005/fanbox/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background(), flagx.Positional(os.Args[1:], []string{"-a", "-t", "-c", "-config"}))

}
