package main

import (
	"github.com/fraudlens/fraudlens/pkg/cli"
)

func main() {
	cli.Execute()
}
