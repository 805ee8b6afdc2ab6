// Package main provides the tierboard CLI.
package main

import "github.com/mesh-intelligence/tierboard/internal/cli"

func main() {
	cli.Execute()
}
