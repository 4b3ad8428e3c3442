package main

import "github.com/gaurav-prasanna/wsexport/cmd"

func main() {
	cmd.Execute()
}
