package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pokedex/internal/events"
	"pokedex/pkg/utils"
)

// Follows the api-server TCP event stream, reconnecting on drop.
func main() {
	addr := flag.String("addr", "127.0.0.1:9090", "TCP event server address")
	only := flag.String("type", "", "only print events of this type")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	logger, err := utils.NewLogger(false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for ctx.Err() == nil {
		if err := run(ctx, *addr, os.Stdout, *only, *pretty, logger); err != nil && ctx.Err() == nil {
			logger.Warn("disconnected", zap.String("addr", *addr), zap.Error(err))
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
}

func run(ctx context.Context, addr string, w io.Writer, only string, pretty bool, logger *zap.Logger) error {
	logger = utils.OrNop(logger)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.Info("connected", zap.String("addr", addr))

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		if err := printLine(w, sc.Bytes(), only, pretty); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

func printLine(w io.Writer, line []byte, only string, pretty bool) error {
	var e events.Event
	if err := json.Unmarshal(line, &e); err != nil {
		// not an event, print raw
		_, err := fmt.Fprintln(w, string(line))
		return err
	}
	if only != "" && e.Type != only {
		return nil
	}
	if !pretty {
		_, err := fmt.Fprintln(w, string(line))
		return err
	}
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
