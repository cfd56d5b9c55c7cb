// cmd/main.go
package main

import cmd "github.com/mwiater/runsummary/cmd/runsummary"

// main starts the runsummary CLI by delegating to the cobra root command
// defined in the runsummary package.
func main() {
	cmd.Execute()
}
