package main

import "github.com/quietdesk/ainotify/cmd"

func main() {
	cmd.Execute()
}
