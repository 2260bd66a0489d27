package main

import (
	"fmt"
	"os"

	"github.com/hireflow-io/hireflow-engine/pkg/nudge"
)

func main() {
	if err := nudge.WorkerCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
