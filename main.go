// The main package for the coursewatch executable.
package main

import "coursewatch/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
