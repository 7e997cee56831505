package main

import (
	"os"

	"github.com/atomicstack/term-list-popup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
