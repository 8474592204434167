package main

import "gagyebu/internal/ctl"

func main() {
	ctl.Execute()
}
