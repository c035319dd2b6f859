package main

import (
	"os"

	"github.com/theapemachine/shopchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
