package main

import "github.com/gjdunga/ModernItemBlocker/cmd/itemblocker/cmd"

func main() {
	cmd.Execute()
}
