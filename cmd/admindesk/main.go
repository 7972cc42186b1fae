// Command admindesk is the administration console CLI.
package main

import "github.com/mesh-intelligence/admindesk/internal/cli"

func main() {
	cli.Execute()
}
