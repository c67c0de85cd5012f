package main

import "formpilot/presentation/cli"

func main() {
	cli.Execute()
}
