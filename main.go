package main

import (
	"github.com/xgr-network/xgr-solver/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
