package main

import "github.com/pders01/agent-sync/cmd"

func main() {
	cmd.Execute()
}
