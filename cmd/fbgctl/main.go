package main

import (
	"os"

	"github.com/structmon/fbg-telemetry/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
