// Command headlines serves top news headlines annotated with market sentiment.
package main

import (
	"os"

	"github.com/samvad-hq/headline-sentiment/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
