package main

import "github.com/mcoot/grabble/internal/cli"

func main() {
	cli.Execute()
}
