package main

import "github.com/ValentinKolb/sybd/cmd"

func main() {
	cmd.Execute()
}
