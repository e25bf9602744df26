/*
main.go - Application entry point

PURPOSE:
  Builds the vesselflow command tree and runs it.

COMMANDS:
  serve      HTTP API server (graceful shutdown on SIGINT/SIGTERM)
  catalog    List issuable items
  issue      Record PPE issued to a crew member
  history    Usage log, optionally filtered
  stats      Fleet usage statistics
  advise     AI Safety Advisor (insights | task)

EXAMPLES:
  # Serve with a file database
  ./vesselflow serve --db ./data/vesselflow.db

  # Serve from an in-memory store (demo seed)
  ./vesselflow serve --storage memory

  # Use a config file
  ./vesselflow serve -c vesselflow.yaml

SEE ALSO:
  - cli/: Command implementations
  - config/config.go: Settings and environment variables
*/
package main

import (
	"fmt"
	"os"

	"github.com/vesselflow/ppe-engine/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
