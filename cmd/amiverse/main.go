package main

import "amiverse/internal/cmd"

func main() {
	cmd.Run()
}
