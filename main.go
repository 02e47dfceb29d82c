package main

import (
	"github.com/sidkik/synccode/cmd"
	"github.com/sidkik/synccode/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
