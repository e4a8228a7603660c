package main

import "github.com/radekjisa/volby-export/internal/cli"

func main() {
	cli.Execute()
}
