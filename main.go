package main

import "github.com/taskpulse/taskpulse/cmd"

func main() {
	cmd.Execute()
}
