// cmd/ossbench/main.go
package main

import (
	ossbench "github.com/mwiater/ossbench/internal/cli"
)

func main() {
	ossbench.Execute()
}
