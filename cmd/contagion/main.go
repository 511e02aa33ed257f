// Command contagion runs the outbreak simulation.
package main

import (
	"os"

	"github.com/talgya/contagion/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
