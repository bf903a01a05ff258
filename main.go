package main

import "github.com/sidereusnuntius/gonovel/internal/cli"

func main() {
	cli.Execute()
}
