package main

import (
	"os"

	"github.com/quadram-institute-bioscience/uflow/uflowkit/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
