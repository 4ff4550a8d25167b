// Package ipc is the local control channel: a unix socket the forte-ctl
// client uses to inject utterances into a running daemon.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// SocketPath is where the daemon listens for control messages.
const SocketPath = "/tmp/forte.sock"

// ControlMessage is one command sent over the socket.
type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// StartServer listens on the control socket and calls handler for every
// decoded message.
func StartServer(handler func(ControlMessage)) error {
	os.Remove(SocketPath)

	ln, err := net.Listen("unix", SocketPath)
	if err != nil {
		return fmt.Errorf("listen %s: %w", SocketPath, err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// Send delivers one command to a running daemon.
func Send(cmd, arg string) error {
	conn, err := net.Dial("unix", SocketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd, Arg: arg})
}
