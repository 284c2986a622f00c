// revctl é a ferramenta administrativa do backend ReVistete.
package main

import (
	"os"

	"github.com/rafabene/revistete-backend/cmd/revctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
