// Command contentctl edits the dynamic sections of a solution or service
// through the admin API. Every change loads the whole document, applies one
// edit and saves the whole document back.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
