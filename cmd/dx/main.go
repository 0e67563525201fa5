/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/dxforge/dxmachine/cmd/dx/cmd"
)

func main() {
	cmd.Execute()
}
