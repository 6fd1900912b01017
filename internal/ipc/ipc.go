// Package ipc exposes a unix-socket control channel for the daemon.
//
// jarvisctl uses it to ask a running jarvisd to speak a line or shut down
// without going through the microphone.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
)

// ControlMessage is one command sent over the control socket.
type ControlMessage struct {
	// Cmd is "say" or "stop".
	Cmd string `json:"cmd"`
	// Text is the line to speak for the "say" command.
	Text string `json:"text,omitempty"`
}

// Serve listens on the unix socket and forwards decoded messages to the
// handler, one connection at a time. It returns once the context is done;
// a stale socket file from a previous run is removed first.
func Serve(ctx context.Context, socketPath string, handler func(ControlMessage)) error {
	_ = os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
		_ = os.Remove(socketPath)
	}()

	slog.Info("control socket listening", "path", socketPath)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("control socket accept failed", "error", err)
			continue
		}
		go handleConn(conn, handler)
	}
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		slog.Debug("discarding malformed control message", "error", err)
		return
	}
	handler(msg)
}

// Send connects to a running daemon's control socket and delivers one message.
func Send(socketPath string, msg ControlMessage) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("dial %s: %w", socketPath, err)
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
