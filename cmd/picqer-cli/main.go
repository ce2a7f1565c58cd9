package main

import "picqer/cmd/picqer-cli/cmd"

func main() {
	cmd.Execute()
}
