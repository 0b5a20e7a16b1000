// cmd/rnaroc/main.go
package main

import (
	"rnaroc/internal/app"
	"rnaroc/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
