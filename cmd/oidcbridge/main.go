// Package main provides the entry point for the standalone oidcbridge
// service.
package main

import (
	"os"

	"github.com/oidcbridge/oidcbridge/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
