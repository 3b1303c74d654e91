package main

import (
	"os"
	"os/signal"

	"github.com/pterm/pterm"

	"github.com/naruebet-orgl/sqlsift/cmd"
)

func main() {
	// Fetch user interrupt; open sinks are flushed cooperatively by the
	// extractor between statements, so a plain exit is safe here.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		pterm.Warning.Println("user interrupt")
		os.Exit(0)
	}()

	cmd.Execute()
}
