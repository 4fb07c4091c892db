package main

import "github.com/corelearn/training-management/cmd"

func main() {
	cmd.Execute()
}
