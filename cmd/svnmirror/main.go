package main

import (
	"os"

	"github.com/dshills/svnmirror/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
