package main

import (
	"os"
	"runtime/debug"

	"github.com/minerva-id/SANCTUARY/cmd"
	"github.com/minerva-id/SANCTUARY/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("SANCTUARY CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
