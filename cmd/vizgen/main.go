package main

import "github.com/GregMSThompson/viz-backend/cmd/vizgen/commands"

func main() {
	commands.Execute()
}
