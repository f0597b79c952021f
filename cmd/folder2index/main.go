// Package main provides the entry point for the folder2index CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/folder2index/cmd/folder2index/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
