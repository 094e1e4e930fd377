package main

import "github.com/zoobzio/fieldcodec/cmd/fieldcodec/cmd"

func main() {
	cmd.Execute()
}
