package main

import "github.com/jsphweid/keyquest/cmd"

func main() {
	cmd.Execute()
}
