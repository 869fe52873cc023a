package main

import (
	"github.com/Abhi-2104/Auralis/cmd"
)

func main() {
	cmd.Execute()
}
