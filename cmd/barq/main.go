package main

import "github.com/MeKo-Tech/barq/cmd/barq/cmd"

func main() {
	cmd.Execute()
}
