package main

import (
	"os"

	"github.com/santiagomed/krito/cli"
)

func main() {
	os.Exit(cli.Execute())
}
