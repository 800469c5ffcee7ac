package main

import "github.com/reviewdesk/reviewkit/internal/cli"

func main() {
	cli.Main()
}
