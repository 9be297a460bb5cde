package main

import "github.com/vendingops/vmconsole/cmd/vmconsoled/cmd"

func main() {
	cmd.Execute()
}
