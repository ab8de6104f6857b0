package main

import "github.com/naka-gawa/conflict-risk/cmd"

func main() {
	cmd.Execute()
}
