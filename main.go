package main

import (
	"github.com/inteinfinder/inteinfinder/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
