package main

import "github.com/cardbazar/cardbazar/cmd"

func main() {
	cmd.Execute()
}
