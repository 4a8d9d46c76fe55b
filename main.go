package main

import "vms-e2e/cmd"

func main() {
	cmd.Execute()
}
