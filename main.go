package main

import "github.com/opsre/trafficmind/cmd"

func main() {
	cmd.Execute()
}
