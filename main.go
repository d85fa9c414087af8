package main

import "github.com/ethanolivertroy/exemplar-check/cmd"

func main() {
	cmd.Execute()
}
