// Package main verifies wallet ownership against the payments backend.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	walletverifycmd "github.com/okito/dashboard/internal/cmd/walletverify"
)

func main() {
	cfg, err := walletverifycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[WALLETVERIFY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := walletverifycmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("wallet verification failed: %v", err)
	}
}
