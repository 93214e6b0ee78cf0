package main

import "github.com/ssargent/njorddb/cmd/njord/cmd"

func main() {
	cmd.Execute()
}
