// cmd/rnaroc-runs/main.go
package main

import (
	"rnaroc/internal/appshell"
	"rnaroc/internal/runsapp"
)

func main() {
	appshell.Main(runsapp.RunContext)
}
