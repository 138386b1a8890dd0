package main

import (
	"fmt"
	"os"

	"github.com/jedwards1230/pipelines/cmd"
)

var errRequestFail = fmt.Errorf("🔥 unable to complete request successfully")

func main() {
	command := cmd.New()
	if err := command.Execute(); err != nil {
		fmt.Println(errRequestFail)
		os.Exit(1)
	}
}
