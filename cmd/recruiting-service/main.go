package main

import (
	"fmt"
	"os"

	"github.com/hireflow-io/hireflow-engine/pkg/recruiting"
)

func main() {
	if err := recruiting.Command().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
