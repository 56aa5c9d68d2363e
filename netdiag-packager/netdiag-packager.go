package main

import "github.com/netdiag/netdiag-tools/cmd/netdiag-packager/cmd"

func main() {
	cmd.Execute()
}
