package main

import "github.com/netdiag/netdiag-tools/cmd/netdiag-rcc/cmd"

func main() {
	cmd.Execute()
}
