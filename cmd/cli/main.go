package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/akarpovs/shelfkeeper/internal/buildinfo"
	"github.com/akarpovs/shelfkeeper/internal/cli"
	"github.com/akarpovs/shelfkeeper/internal/config"
	"github.com/akarpovs/shelfkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}
	root := cli.NewRootCommand(app)
	err = root.ExecuteContext(ctx)
	_ = app.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}
}
