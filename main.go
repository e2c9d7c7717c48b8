package main

import "github.com/andrewpaige1/flashgen-api/cli"

func main() {
	cli.Execute()
}
