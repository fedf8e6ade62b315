package main

import "github.com/missionkuamar/auth-redux/cmd/auth-redux/cmd"

func main() {
	cmd.Execute()
}
