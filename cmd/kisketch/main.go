package main

import "github.com/chazu/kisketch/internal/cli"

func main() {
	cli.Execute()
}
