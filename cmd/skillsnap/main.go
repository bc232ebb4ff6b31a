package main

import "github.com/goliatone/go-skillsnap/cmd/skillsnap/cmd"

func main() {
	cmd.Execute()
}
