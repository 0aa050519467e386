package main

import "github.com/ScootGarcia/renetium/cmd"

func main() {
	cmd.Execute()
}
