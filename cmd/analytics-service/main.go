package main

import (
	"fmt"
	"os"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics"
)

func main() {
	if err := analytics.Command().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
