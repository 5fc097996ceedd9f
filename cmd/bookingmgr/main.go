package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd, err := newRootCmd()
	if err == nil {
		err = rootCmd.Execute()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
