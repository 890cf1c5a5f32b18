package main

import "github.com/theirongolddev/qburn/cmd"

func main() {
	cmd.Execute()
}
