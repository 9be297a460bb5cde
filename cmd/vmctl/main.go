package main

import "github.com/vendingops/vmconsole/cmd/vmctl/cmd"

func main() {
	cmd.Execute()
}
