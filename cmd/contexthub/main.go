// contexthub is the command line client for the ContextHub knowledge base.
package main

import "contexthub/internal/cli"

func main() {
	cli.Execute()
}
