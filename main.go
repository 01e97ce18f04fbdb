package main

import "github.com/meinhoongagan/marketplace/cmd"

func main() {
	cmd.Execute()
}
