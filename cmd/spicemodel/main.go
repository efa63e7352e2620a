// Command spicemodel extracts SPICE .model and .subckt directives into a
// queryable store and serves that store over MCP.
package main

import "github.com/mvp-joe/spicemodel/internal/cli"

func main() {
	cli.Execute()
}
