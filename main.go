package main

import "github.com/mvillanueva/dentaladmin_backend/cmd"

func main() {
	cmd.Execute()
}
