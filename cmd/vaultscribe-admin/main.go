// Command vaultscribe-admin maintains a VaultScribe account database:
// schema migrations, account inspection and session cleanup.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
