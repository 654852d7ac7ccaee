package events

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"pokedex/pkg/utils"
)

// Server accepts line-JSON listeners over TCP.
type Server struct {
	Addr   string
	Hub    *Hub
	Logger *zap.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func NewServer(addr string, hub *Hub, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Hub: hub, Logger: utils.OrNop(logger)}
}

// Listen binds the address without accepting yet.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return ln.Addr(), nil
}

// Run listens (if Listen was not called) and accepts until Close.
func (s *Server) Run() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.ln
		s.mu.Unlock()
	}

	logger := utils.OrNop(s.Logger)
	logger.Info("event listener ready", zap.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			logger.Warn("accept failed", zap.Error(err))
			continue
		}

		s.Hub.Join(conn)
		logger.Debug("listener connected", zap.String("remote", conn.RemoteAddr().String()))

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer func() {
				s.Hub.Remove(c)
				logger.Debug("listener disconnected", zap.String("remote", c.RemoteAddr().String()))
			}()

			// listeners do not talk; drain until they hang up
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

// Close stops accepting and drops every TCP listener.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.Hub.CloseAll()
	return err
}
