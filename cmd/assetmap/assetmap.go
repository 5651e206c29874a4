package main

import (
	"context"

	"github.com/tweag/assetmap/cmd/root"
)

func main() {
	root.Execute(context.Background())
}
