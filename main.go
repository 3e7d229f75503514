/*
Application shell around the engine package: loads the configuration,
wires OS signals to a clean shutdown and runs the frame loop.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenengine/lumen/engine"
)

func main() {
	configPath := flag.String("config", "lumen.toml", "path to the application config file")
	flag.Parse()

	cfg, err := engine.LoadApplicationConfig(*configPath)
	if err != nil {
		panic(err)
	}

	eng, err := engine.New(cfg, *configPath)
	if err != nil {
		panic(err)
	}

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// Signals only request a close; the frame loop shuts down on its
	// own thread once the current frame finishes.
	go func() {
		<-sigCh
		eng.RequestClose()
	}()

	// run engine
	if err := eng.Run(); err != nil {
		panic(err)
	}
}
