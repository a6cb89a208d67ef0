// Package main provides the usbscan interactive USB malware scanner.
package main

import (
	"log"
	"os"

	"github.com/clean-dependency-project/usbscan/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
