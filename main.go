package main

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/licenseforge/copyrightgen/cmd"
)

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logger.TextFormatter{FullTimestamp: true})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
