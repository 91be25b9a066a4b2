package main

import "github.com/mcoot/sketchgame/internal/cli"

func main() {
	cli.Execute()
}
