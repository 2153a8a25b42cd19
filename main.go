package main

import "ddd-course/cmd"

func main() {
	cmd.Execute()
}
