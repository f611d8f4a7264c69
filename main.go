package main

import "table-check/cmd"

func main() {
	cmd.Execute()
}
