package main

import (
	"github.com/hillstub/yeastriction/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
