package main

import "tempotoggl/cmd"

func main() {
	cmd.Execute()
}
