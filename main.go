package main

import "data-reconciler/cmd"

func main() {
	cmd.Execute()
}
