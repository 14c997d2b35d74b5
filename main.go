package main

import "aprd/internal/cli"

func main() {
	cli.Execute()
}
