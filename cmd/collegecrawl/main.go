// cmd/collegecrawl/main.go
package main

import (
	"github.com/law-makers/collegecrawl/internal/cli"
)

func main() {
	// Execute CLI (app initialization and signal handling happen inside cli.Execute)
	cli.Execute()
}
