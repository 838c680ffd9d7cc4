package main

import "trialbench/cmd"

func main() {
	cmd.Execute()
}
