package main

import "os"

// main is the entry point for the stack-sanitizer application. Execute
// (defined in root.go) sets up and runs the root Cobra command and maps the
// run outcome to the process exit code.
func main() {
	os.Exit(Execute())
}
