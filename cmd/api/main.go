package main

import (
	"context"

	"sinfopers/internal/cli"
)

func main() {
	cli.Execute(context.Background())
}
