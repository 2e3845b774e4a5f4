package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/linedeck/linedeck/internal/launcher"
)

func main() {
	var serverCmd string
	var healthURL string
	var interval time.Duration

	flag.StringVar(&serverCmd, "server-cmd", "", "Command line to spawn the server, e.g. \"./linedeck-server -port 3113\"; empty watches an already-running server")
	flag.StringVar(&healthURL, "health-url", "http://127.0.0.1:3113/health", "Health endpoint to watch")
	flag.DurationVar(&interval, "interval", 3*time.Second, "Health probe interval")
	flag.Parse()

	opts := launcher.Options{
		HealthURL: healthURL,
		PollTick:  interval,
	}
	if serverCmd != "" {
		opts.ServerCmd = strings.Fields(serverCmd)
	}

	if err := launcher.Run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "launcher error:", err)
		os.Exit(1)
	}
}
