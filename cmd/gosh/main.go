// Command gosh is the shell entry point.
package main

import (
	"os"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/repl"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(repl.Run(stdio, os.Args[1:]))
}
