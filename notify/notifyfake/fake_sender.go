package notifyfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-task-server/notify"
)

var _ notify.Sender = (*FakeSender)(nil)

// FakeSender records sends and can be told to fail, to exercise the
// invitation gate's compensating rollback.
type FakeSender struct {
	lock    sync.Mutex
	sent    []SentMessage
	sendErr error
}

type SentMessage struct {
	Recipient string
	Template  notify.TemplateName
	Data      notify.TemplateData
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) Send(_ context.Context, recipient string, template notify.TemplateName, data notify.TemplateData) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, SentMessage{Recipient: recipient, Template: template, Data: data})
	return nil
}

// FailWith makes every subsequent Send return err. Pass nil to restore
// normal delivery.
func (s *FakeSender) FailWith(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sendErr = err
}

func (s *FakeSender) Sent() []SentMessage {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]SentMessage(nil), s.sent...)
}
