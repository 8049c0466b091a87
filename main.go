package main

import (
	"github/chapool/lp-custody/cmd"
)

func main() {
	cmd.Execute()
}
