package main

import "github.com/pageza/foodgram/backend/cmd/foodgramctl/commands"

func main() {
	commands.Execute()
}
