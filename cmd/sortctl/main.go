package main

import "github.com/mcoot/colorwood/internal/cli"

func main() {
	cli.Execute()
}
