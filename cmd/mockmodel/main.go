package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/mockmodel"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address (default 127.0.0.1:18080)")
	flag.Parse()

	shutdown, baseURL, err := mockmodel.StartMockModel(*addrFlag)
	if err != nil {
		log.Fatalf("failed to start mock model: %v", err)
	}
	log.Printf("mock model listening on %s", baseURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
