package main

import "github.com/sjc5/mincss/internal/cli"

func main() {
	cli.Execute()
}
