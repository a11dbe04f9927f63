package main

import "github.com/dumpsift/dumpsift/cmd"

func main() {
	cmd.Execute()
}
