// Command zz is the front end for the source-package manager and build
// orchestrator: the CLI that wires the build engine to a real workspace on
// disk.
package main

import "github.com/wakarni/zz/cmd/zz/internal"

func main() {
	internal.Execute()
}
