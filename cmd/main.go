package main

import (
	cmd "github.com/JaegerMaster/audible-dl/cmd/audibledl"
)

func main() {
	cmd.Execute()
}
