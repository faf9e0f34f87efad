package main

import (
	"os"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
