// Command gqlnormalize prints the canonical form of a GraphQL query document.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
