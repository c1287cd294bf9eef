// Package main is the entry point for the playground CLI.
package main

import "gooze.dev/pkg/playground/cmd"

func main() {
	cmd.Execute()
}
