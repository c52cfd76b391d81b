package main

import (
	"log"

	"themestore/cmd/themestore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
