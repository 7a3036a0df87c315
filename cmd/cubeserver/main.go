// Command cubeserver runs the cubeview session and browse-http servers.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/skylark-imaging/cubeview/cvlog"
	"github.com/skylark-imaging/cubeview/server"
)

var (
	configPath  = flag.String("config", "", "path to a TOML config file")
	runVerbose  = flag.Bool("verbose", false, "run in verbose mode")
	sessionAddr = flag.String("session", "", "override [server].session_address, e.g. :9002")
	webAddr     = flag.String("web", "", "override [server].web_address, e.g. :9003")
	numCPU      = flag.Int("numcpu", 0, "number of logical CPUs to use (0 = all)")
)

func main() {
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if *runVerbose {
		cfg.Logging.Verbose = true
	}
	if *sessionAddr != "" {
		cfg.Server.SessionAddress = *sessionAddr
	}
	if *webAddr != "" {
		cfg.Server.WebAddress = *webAddr
	}

	if *numCPU != 0 {
		runtime.GOMAXPROCS(*numCPU)
	}

	stopSig := make(chan os.Signal, 1)
	signal.Notify(stopSig, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-stopSig
		cvlog.Infof("stop signal captured: %v, shutting down\n", sig)
		cvlog.Shutdown()
		os.Exit(0)
	}()

	if err := server.Serve(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
