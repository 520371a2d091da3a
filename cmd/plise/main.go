package main

import "github.com/Simplici0/plise/cmd/plise/commands"

func main() {
	commands.Execute()
}
