// main is the entry point for the callsight CLI.
package main

import (
	"os"

	"github.com/callsight/callsight/cmd"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/store"
)

func main() {
	defer store.CloseStores()

	if err := cmd.Execute(); err != nil {
		contract.LogWarn("command failed", err)
		store.CloseStores()
		os.Exit(1)
	}
}
