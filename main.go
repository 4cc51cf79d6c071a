package main

import (
	"exusiai.dev/tracediag/cmd/app"
)

func main() {
	app.Run()
}
