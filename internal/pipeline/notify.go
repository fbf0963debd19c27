package pipeline

import "sync"

// Message levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarn    = "warn"
	LevelError   = "error"
)

// Message is one notification captured by a Collector.
type Message struct {
	Level string `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Collector is a Notifier that records messages in order.
type Collector struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *Collector) add(level, text string) {
	c.mu.Lock()
	c.msgs = append(c.msgs, Message{Level: level, Text: text})
	c.mu.Unlock()
}

func (c *Collector) Info(msg string)    { c.add(LevelInfo, msg) }
func (c *Collector) Success(msg string) { c.add(LevelSuccess, msg) }
func (c *Collector) Warn(msg string)    { c.add(LevelWarn, msg) }
func (c *Collector) Error(msg string)   { c.add(LevelError, msg) }

// Messages returns a copy of the recorded messages.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.msgs...)
}

// Count returns the number of messages at level.
func (c *Collector) Count(level string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.msgs {
		if m.Level == level {
			n++
		}
	}
	return n
}
