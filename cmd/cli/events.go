package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"pokedex/internal/events"
)

func (a *app) eventsCmd() *cobra.Command {
	var tcpAddr string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Server event stream",
	}
	listen := &cobra.Command{
		Use:   "listen",
		Short: "Follow preference and cache events",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			next, closeFn, err := a.dialEvents(tcpAddr)
			if err != nil {
				return err
			}
			go func() {
				<-ctx.Done()
				closeFn()
			}()

			for {
				raw, err := next()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
				var e events.Event
				if json.Unmarshal(raw, &e) != nil {
					a.printf(c, "%s\n", raw)
					continue
				}
				printEvent(a, c, e)
			}
		},
	}
	listen.Flags().StringVar(&tcpAddr, "tcp", "", "read the TCP stream at this address instead of the websocket")
	cmd.AddCommand(listen)
	return cmd
}

// dialEvents returns a reader of raw JSON messages from either transport.
func (a *app) dialEvents(tcpAddr string) (func() ([]byte, error), func(), error) {
	if tcpAddr != "" {
		conn, err := net.Dial("tcp", tcpAddr)
		if err != nil {
			return nil, nil, err
		}
		sc := bufio.NewScanner(conn)
		next := func() ([]byte, error) {
			if sc.Scan() {
				return sc.Bytes(), nil
			}
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("connection closed")
		}
		return next, func() { conn.Close() }, nil
	}

	wsURL, err := websocketURL(a.baseURL, "/ws")
	if err != nil {
		return nil, nil, err
	}
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, nil, err
	}
	next := func() ([]byte, error) {
		_, msg, err := ws.ReadMessage()
		return msg, err
	}
	return next, func() { ws.Close() }, nil
}

func printEvent(a *app, c *cobra.Command, e events.Event) {
	switch e.Type {
	case events.TypePrefsUpdate:
		a.printf(c, "[%s] %s set %s = %s\n", e.At.Format("15:04:05"), e.UserID, e.Key, e.Value)
	case events.TypeCacheGeneration:
		a.printf(c, "[%s] generation %d cached (%d entries)\n", e.At.Format("15:04:05"), e.Generation, e.Count)
	default:
		a.printf(c, "[%s] %s\n", e.At.Format("15:04:05"), e.Type)
	}
}
