package main

import (
	"os"

	"github.com/urfave/cli"

	"mini-sky/internal/log"
	"mini-sky/internal/profiling"
)

var logger = log.New("mini-sky")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// onExit runs on normal exit and on SIGINT/SIGTERM.
func onExit() {
	logger.Notice("shutting down")
	if log.Enabled(log.Info) {
		profiling.Table(os.Stdout)
	}
}
