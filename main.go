package main

import (
	"github.com/moiramusic/moira/cmd"
)

func main() {
	cmd.Execute()
}
