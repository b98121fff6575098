package main

import (
	"os"

	"github.com/liquidity-rails/rails-deploy/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
