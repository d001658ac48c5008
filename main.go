package main

import "github.com/twiced-technology-gmbh/gradwatch/cmd"

func main() {
	cmd.Execute()
}
