package main

import "github.com/biker2000on/gnucash-web-sub001/cmd"

func main() {
	cmd.Execute()
}
