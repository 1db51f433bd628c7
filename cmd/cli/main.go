package main

import (
	"fmt"
	"os"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
