package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
)

var configPath = flag.String("config", "", "Path to the YAML config file (default $CONFIG_PATH or configs/config.yaml)")

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&serveCmd{}, "")
	subcommands.Register(&fetchCmd{}, "data")
	subcommands.Register(&chartCmd{}, "data")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
