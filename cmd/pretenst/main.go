// Command pretenst grows, shapes and realizes tensegrity fabrics and keeps
// a record of every run.
package main

import "github.com/mesh-intelligence/pretenst/internal/cli"

func main() {
	cli.Execute()
}
