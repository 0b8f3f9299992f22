// The main package for the payrollscrape executable.
package main

import (
	"github.com/ballpark-labs/payrollscrape/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
