// Command envsim compiles and serves environmental disturbance data for
// robotics co-simulation (spec §1, §6).
package main

import (
	"os"

	"github.com/hakoniwa-sim/envsim/internal/cli"
)

func main() {
	cfg := cli.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
