package main

import (
	"os"

	"github.com/MathiasVDS1/ProjectManagement/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
