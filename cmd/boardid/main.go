// cmd/boardid/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/boardid/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	// Cancel in-flight extractions on interrupt; a second signal exits at once
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
	}()

	os.Exit(cli.Execute(ctx))
}
