package main

import "github.com/phux/rtcapi/cmd"

func main() {
	cmd.Execute()
}
