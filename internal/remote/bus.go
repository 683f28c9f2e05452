// Package remote connects the daemon to a websocket hub so that other
// machines can send typed utterances and hear the replies.
package remote

import (
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/gorilla/websocket"
)

// Message is one hub frame. Kind is "utterance" inbound and "reply"
// outbound.
type Message struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Bus is a reconnecting websocket client.
type Bus struct {
	logger     *slog.Logger
	url        string
	shard      string
	reconnWait time.Duration
	conn       *ws.Conn
}

func Connect(logger *slog.Logger, url, shard string) (*Bus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to hub", "url", url)
	return &Bus{
		logger:     logger,
		url:        url,
		shard:      shard,
		reconnWait: 5 * time.Second,
		conn:       conn,
	}, nil
}

// Read blocks for the next hub message, reconnecting on a closed
// connection. Frames that fail to decode are skipped.
func (b *Bus) Read() (*Message, error) {
	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				return nil, err
			}
			b.logger.Warn("hub connection lost, reconnecting")
			b.reconnect()
			continue
		}

		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			b.logger.Warn("bad hub frame", "err", err)
			continue
		}
		return &m, nil
	}
}

// Reply answers an inbound message.
func (b *Bus) Reply(to *Message, text string) error {
	out := Message{
		From: b.shard,
		To:   to.From,
		Kind: "reply",
		Text: text,
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(ws.TextMessage, raw)
}

func (b *Bus) Close() error {
	return b.conn.Close()
}

func (b *Bus) reconnect() {
	for {
		conn, _, err := ws.DefaultDialer.Dial(b.url, nil)
		if err == nil {
			b.conn = conn
			b.logger.Info("reconnected to hub")
			return
		}
		time.Sleep(b.reconnWait)
	}
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure) || ws.IsUnexpectedCloseError(err)
}
