package main

import "github.com/kreczko/pax-deploy/cmd/paxdeploy/cmd"

func main() {
	cmd.Execute()
}
