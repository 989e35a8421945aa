package main

import "github.com/aqasim81/scriptdb/internal/cli"

func main() {
	cli.Execute()
}
