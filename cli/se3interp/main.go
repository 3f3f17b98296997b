// Package main is the se3interp command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/se3interp/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
