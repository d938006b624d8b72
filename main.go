package main

import (
	"log"

	"github.com/km-arc/go-framework/framework/cli"
)

// Command-line client for go-framework.
//
//	Supported commands: (see "-h" for all options)
//		alias <token> [--root]
//		aliases
//		locate <fqcn>
//		definitions
//		make <id> [--set key=value]
//	Global flags:
//		--env [dotenv files to load, default .env]
func main() {
	if err := cli.New().Exec(); err != nil {
		log.Fatal("error running go-framework: ", err)
	}
}
