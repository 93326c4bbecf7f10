package main

import (
	"os"

	"techblog/service"
)

func main() {
	os.Exit(service.Execute())
}
