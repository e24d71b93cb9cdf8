package main

import "github.com/sadopc/daygrid/internal/cli"

func main() {
	cli.Execute()
}
