package main

import (
	"os"
	"os/signal"

	"github.com/jiundev/gongmo-calendar/internal/cli"
)

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		os.Exit(130)
	}()

	cli.Execute()
}
