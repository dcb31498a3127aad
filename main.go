package main

import "github.com/agentic-research/xmlgrep/cmd"

func main() {
	cmd.Execute()
}
