package main

import "eventforms/cmd"

func main() {
	cmd.Execute()
}
