package main

import "github.com/zostay/go-postal/internal/cmd"

func main() {
	cmd.Execute()
}
