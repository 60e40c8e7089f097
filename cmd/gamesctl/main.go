package main

import (
	"github.com/BorDevTech/games-server/internal/cli"
)

func main() {
	cli.Execute()
}
