package main

import (
	"github.com/adwikataware/Hackcrypt/cmd"
)

func main() {
	cmd.Execute()
}
