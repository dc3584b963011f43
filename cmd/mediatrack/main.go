package main

import "github.com/aqasim81/mediatrack/internal/cli"

func main() {
	cli.Execute()
}
