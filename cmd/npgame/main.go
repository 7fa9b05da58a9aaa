package main

import (
	"github.com/numberparty/numberparty/internal/cli"
)

func main() {
	cli.Execute()
}
