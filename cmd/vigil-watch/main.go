// vigil-watch tails the live status stream of a running vigil
// dashboard and prints one line per state change.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/vigil-labs/go-vigil/pkg/monitor"
)

func main() {
	addr := flag.String("addr", "localhost:8321", "Dashboard host:port")
	verbose := flag.Bool("verbose", false, "Print every frame, not just state changes")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/status", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot connect to %s: %v\n", url, err)
		fmt.Fprintln(os.Stderr, "Is vigil running with --dashboard?")
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Watching %s\n", url)

	// Close the connection on Ctrl+C so ReadMessage unblocks.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	lastState := ""
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var u monitor.Update
		if err := json.Unmarshal(data, &u); err != nil {
			continue
		}

		if !*verbose && u.State == lastState {
			continue
		}
		lastState = u.State

		fmt.Printf("[%s] %-8s ear=%.3f frames=%d alarms=%d\n",
			shortID(u.SessionID), u.State, u.EAR, u.Frames, u.Alarms)
	}
}

// shortID abbreviates a session id for display. Ids shorter than
// eight characters (or missing from the payload) pass through as-is.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
