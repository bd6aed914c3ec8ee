// studiodesk - Weekly agenda and postural assessments for a pilates studio
//
// This software is a derivative work based on Zeit (https://github.com/mrusme/zeit)
// Original work copyright (c) マリウス (mrusme)
// Modifications copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/manav03panchal/studiodesk/cmd"
	"github.com/manav03panchal/studiodesk/internal/runtime"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		if text := cmd.ReportError(err); text != "" {
			fmt.Fprintln(os.Stderr, "Error: "+text)
		}
		os.Exit(runtime.ExitCode(err))
	}
}
