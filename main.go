package main

import "github.com/fakeyudi/revpane/cmd"

func main() {
	cmd.Execute()
}
