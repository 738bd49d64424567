package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jira-bridge/internal/logging"
	"jira-bridge/tools"
	"jira-bridge/utility"
)

func main() {
	execCmd := flag.String("exec", "", "execute a single /tool command against a running server and exit")
	listTools := flag.Bool("list-tools", false, "print the tools a running server exposes and exit")
	flag.Parse()

	logFile, err := logging.Setup()
	if err != nil {
		log.Fatalf("[Server] Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	// One-shot client modes talk to an already-running server.
	if *listTools {
		out, _ := utility.ListAvailableTools()
		fmt.Print(out)
		return
	}
	if *execCmd != "" {
		out, err := utility.ParseAndExecuteTool(*execCmd)
		if err != nil {
			log.Fatalf("[Client] %v", err)
		}
		fmt.Println(out)
		return
	}

	if _, err := utility.LoadConfig(); err != nil {
		log.Printf("[Server] Config not loaded (%v); Jira tools will fail until it exists", err)
	}

	addr := utility.GetToolsAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: tools.NewRouter(),
	}

	go func() {
		log.Printf("[Server] Tool server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("[Server] Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Server] Shutdown: %v", err)
	}
}
