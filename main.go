package main

import "github.com/samuelfneumann/goimitate/cmd"

func main() {
	cmd.Execute()
}
