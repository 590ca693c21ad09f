// Command rebuild recomputes every stored team-ranking period on demand.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
