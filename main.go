package main

import "github.com/dotcommander/codescore/cmd"

func main() {
	cmd.Execute()
}
