package main

import (
	"os"

	"github.com/pkg/errors"
)

func main() {
	rootCmd := newRoot().Command()

	if cmd, err := rootCmd.ExecuteC(); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		}
		os.Exit(1)
	}
}
