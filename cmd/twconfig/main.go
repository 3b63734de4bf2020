package main

import "github.com/specvital/twconfig/internal/cli"

func main() {
	cli.Execute()
}
