// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = doctor.WithTraceId(ctx, uuid.NewString())

	err := commands.Execute(ctx)
	stop()
	if err != nil {
		doctor.CheckErr(ctx, err)
	}
}
