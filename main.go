package main

import "github.com/LegacyCodeHQ/rsbundle/cmd"

func main() {
	cmd.Execute()
}
