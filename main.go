package main

import (
	"os"

	"github.com/fzft/go-resp3/cmd"
	"github.com/fzft/go-resp3/log"
)

func main() {
	cli := cmd.NewCli(buildInfo())
	code := cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	_ = log.Logger.Sync()
	os.Exit(code)
}
