package main

import "github.com/KaramelBytes/chessreport-cli/cmd"

func main() {
	cmd.Execute()
}
