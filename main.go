package main

import (
	"os"

	"github.com/eter-store/eter-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
