package main

import "papermc/internal/cli/cmd"

func main() {
	cmd.Execute()
}
