package main

import "github.com/Beastly713/codecprop/cmd"

func main() {
	cmd.Execute()
}
