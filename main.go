package main

import "github.com/Mohsinsiddi/nftmint/cmd"

func main() {
	cmd.Execute()
}
