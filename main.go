package main

import "github.com/harrisonrobin/habita/pkg/cli"

func main() {
	cli.Execute()
}
