// Command dataviewer loads tabular files and searches them from the terminal.
package main

import (
	"os"

	"github.com/JonMunkholm/dataviewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
