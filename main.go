package main

import (
	"os"

	"github.com/kotoba-app/kotoba/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
