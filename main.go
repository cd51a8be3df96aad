package main

import "github.com/YossiBenZaken/DatingApp/cmd"

func main() {
	cmd.Run()
}
