package notify

import (
	"fmt"
	"log"
)

// Notifier — канал алертов сканера.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Stdout — заглушка, когда Telegram не сконфигурен.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
