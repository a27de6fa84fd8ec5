package main

import (
	"log"
	"os"

	"github.com/kvahouse/telefwd/internal/alloc"
	"github.com/kvahouse/telefwd/internal/driver"
)

func main() {
	logger := log.New(os.Stderr, "", 0)
	d := driver.New(alloc.Unlimited{}, os.Stdout, os.Stderr, logger)
	os.Exit(d.Run(os.Stdin))
}
