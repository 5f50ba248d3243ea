package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"starcomm_training_client/internal/app"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/view"
	"starcomm_training_client/pkg/configwatcher"
)

// consoleHost renders the declarative view models onto the terminal and
// answers confirmation prompts with the next stdin line. A real deployment
// would bind the views to a browser surface instead.
type consoleHost struct {
	out *os.File

	mu      sync.Mutex
	pending chan string
}

func (h *consoleHost) Render(v *view.View) {
	fmt.Fprintf(h.out, "\n== %s [%s] ==\n", v.Title, v.Kind)
	if v.Alert != nil {
		fmt.Fprintf(h.out, "[%s] %s\n", v.Alert.Level, v.Alert.Message)
	}
	if v.Data != nil {
		if data, err := json.MarshalIndent(v.Data, "", "  "); err == nil {
			fmt.Fprintln(h.out, string(data))
		}
	}
	for _, action := range v.Actions {
		fmt.Fprintf(h.out, "  -> %s: #%s\n", action.Label, action.Path)
	}
}

func (h *consoleHost) Alert(level view.AlertLevel, message string) {
	fmt.Fprintf(h.out, "[%s] %s\n", level, message)
}

// Confirm blocks the asking handler until the next input line arrives.
func (h *consoleHost) Confirm(message string) bool {
	answered := make(chan string, 1)
	h.mu.Lock()
	h.pending = answered
	h.mu.Unlock()

	fmt.Fprintf(h.out, "%s [y/N]: ", message)
	answer, ok := <-answered

	h.mu.Lock()
	h.pending = nil
	h.mu.Unlock()

	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// feed hands a stdin line to a waiting confirmation, if any. Returns true
// when the line was consumed as an answer.
func (h *consoleHost) feed(line string) bool {
	h.mu.Lock()
	pending := h.pending
	h.mu.Unlock()
	if pending == nil {
		return false
	}
	pending <- line
	return true
}

func main() {
	configPath := flag.String("config", "configs", "config directory")
	startPath := flag.String("path", "", "initial navigation path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := &consoleHost{out: os.Stdout}
	a := app.NewApp(cfg, host, host)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go func() {
		err := configwatcher.Watch(ctx, *configPath, a.Log, func(cfg *config.Config) {
			a.API.UpdateLimits(cfg.API.RequestsPerSec, cfg.API.Burst)
		})
		if err != nil {
			a.Log.Warn("config watcher unavailable", zap.Error(err))
		}
	}()
	a.Router.Navigate(*startPath)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		defer close(lines)
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			lines <- strings.TrimSpace(stdin.Text())
		}
	}()

	for {
		select {
		case <-quit:
			a.Stop(ctx)
			return
		case line, ok := <-lines:
			if !ok || line == "quit" || line == "exit" {
				a.Stop(ctx)
				return
			}
			if line == "" || host.feed(line) {
				continue
			}
			a.Router.Navigate(strings.TrimPrefix(line, "#"))
		}
	}
}
