package main

import (
	"os"

	"github.com/wael7705/khawam-pro-sub000/cmd/orderflowctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
