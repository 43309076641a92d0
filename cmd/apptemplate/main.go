// Package main is the entry point for the apptemplate CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/apptemplate/apptemplate/internal/cmd"
	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *aerrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(aerrors.ExitCodeFromError(err))
	}
}
