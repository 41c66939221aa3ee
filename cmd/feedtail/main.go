// Command main tails the live feed over WebSocket and prints each event.
// Useful for watching a running server during development:
//
//	go run ./cmd/feedtail -url ws://localhost:8490/api/ws -token <jwt>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	rawURL := flag.String("url", "ws://localhost:8490/api/ws", "WebSocket URL of the feed endpoint")
	token := flag.String("token", "", "JWT token for authentication")
	flag.Parse()

	if *token == "" {
		log.Fatal("a -token is required; obtain one via POST /api/auth/login")
	}

	u, err := url.Parse(*rawURL)
	if err != nil {
		log.Fatalf("invalid url: %v", err)
	}
	q := u.Query()
	q.Set("token", *token)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			printEvent(message)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupted, closing connection")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func printEvent(raw []byte) {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), raw)
		return
	}
	fmt.Printf("%s [%s] %s\n", time.Now().Format(time.TimeOnly), event.Type, event.Payload)
}
