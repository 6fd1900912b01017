// Jarvisctl sends control commands to a running jarvisd instance.
//
// Usage:
//
//	jarvisctl stop
//	jarvisctl say "dinner is ready"
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nadzzz/jarvisd/internal/ipc"
)

func main() {
	socketPath := pflag.StringP("socket", "s", "/tmp/jarvisd.sock", "jarvisd control socket path")
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jarvisctl [--socket path] <stop|say text...>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	if msg.Cmd == "say" {
		msg.Text = strings.Join(args[1:], " ")
	}

	if err := ipc.Send(*socketPath, msg); err != nil {
		fmt.Fprintf(os.Stderr, "jarvisctl: %v\n", err)
		os.Exit(1)
	}
}
