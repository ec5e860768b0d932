package main

import "modpack-manager/cmd"

func main() {
	cmd.Execute()
}
