package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bledchat/server/internal/cipher"
	"github.com/bledchat/server/internal/domain"
)

type fakeTransport struct {
	mu        sync.Mutex
	submitted []domain.Message
	submitErr error

	history    map[string][]domain.Message
	historyErr error
	// nullBody mimics a response body of literal null, which decodes to a
	// nil slice without error.
	nullBody bool
}

func (f *fakeTransport) Submit(_ context.Context, m domain.Message) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return domain.Message{}, f.submitErr
	}
	f.submitted = append(f.submitted, m)
	return m, nil
}

func (f *fakeTransport) History(_ context.Context, room string, _ int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if f.nullBody {
		return nil, nil
	}
	// A room the server has never seen lists as an empty array, not null.
	msgs := f.history[room]
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

func (f *fakeTransport) sent() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Message, len(f.submitted))
	copy(out, f.submitted)
	return out
}

func newTestSession(tr *fakeTransport) *Session {
	return NewSession(tr, "alice", "hunter2", "general", zerolog.Nop())
}

func TestSession_Send_OptimisticInsertAndDelivery(t *testing.T) {
	tr := &fakeTransport{}
	s := newTestSession(tr)

	m := s.Send(context.Background(), "hello world")

	// Visible locally before the network round trip completes.
	local := s.Cache.Messages("general")
	if len(local) != 1 || local[0].Msg.ID != m.ID {
		t.Fatalf("optimistic insert missing: %+v", local)
	}
	if m.CipherText == "" {
		t.Fatalf("expected encrypted blob on local record")
	}
	if res := cipher.Decrypt(m.CipherText, "hunter2"); !res.Decrypted || res.Plaintext != "hello world" {
		t.Fatalf("blob does not round-trip: %+v", res)
	}

	s.Flush()

	sent := tr.sent()
	if len(sent) != 1 {
		t.Fatalf("expected one submit, got %d", len(sent))
	}
	// Plaintext never rides the wire when the blob exists.
	if sent[0].Text != "" || sent[0].CipherText == "" {
		t.Fatalf("wire record leaked plaintext: %+v", sent[0])
	}
	if got := s.Cache.Messages("general")[0].Delivery; got != DeliveryConfirmed {
		t.Fatalf("delivery = %v, want confirmed", got)
	}
}

func TestSession_Send_FailureKeepsRecordVisible(t *testing.T) {
	tr := &fakeTransport{submitErr: errors.New("connection refused")}
	s := newTestSession(tr)

	m := s.Send(context.Background(), "hi")
	s.Flush()

	local := s.Cache.Messages("general")
	if len(local) != 1 || local[0].Msg.ID != m.ID {
		t.Fatalf("failed send retracted the record: %+v", local)
	}
	if local[0].Delivery != DeliveryFailed {
		t.Fatalf("delivery = %v, want failed", local[0].Delivery)
	}
}

func TestSession_Refresh_ReplacesActiveRoom(t *testing.T) {
	tr := &fakeTransport{history: map[string][]domain.Message{
		"general": {msg("s1", "general", "from server")},
	}}
	s := newTestSession(tr)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got := s.Cache.Messages("general")
	if len(got) != 1 || got[0].Msg.ID != "s1" {
		t.Fatalf("unexpected cache after refresh: %+v", got)
	}

	// Unknown room on the server comes back empty and is authoritative.
	s.Switch("empty")
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh empty room: %v", err)
	}
	if got := s.Cache.Messages("empty"); len(got) != 0 {
		t.Fatalf("expected empty cache, got %+v", got)
	}
}

func TestSession_Refresh_ErrorKeepsLastKnownGood(t *testing.T) {
	tr := &fakeTransport{history: map[string][]domain.Message{
		"general": {msg("s1", "general", "good")},
	}}
	s := newTestSession(tr)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	tr.mu.Lock()
	tr.historyErr = errors.New("gateway timeout")
	tr.mu.Unlock()

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := s.Cache.Messages("general"); len(got) != 1 || got[0].Msg.ID != "s1" {
		t.Fatalf("failed refresh clobbered cache: %+v", got)
	}
}

func TestSession_Refresh_NullHistoryKeepsLastKnownGood(t *testing.T) {
	tr := &fakeTransport{history: map[string][]domain.Message{
		"general": {msg("s1", "general", "good")},
	}}
	s := newTestSession(tr)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	tr.mu.Lock()
	tr.nullBody = true
	tr.mu.Unlock()

	// Decodes cleanly, so no error, but the cache must not be cleared.
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("null refresh: %v", err)
	}
	if got := s.Cache.Messages("general"); len(got) != 1 || got[0].Msg.ID != "s1" {
		t.Fatalf("null history clobbered cache: %+v", got)
	}
}

func TestSession_Switch_ChangesSendRoom(t *testing.T) {
	tr := &fakeTransport{}
	s := newTestSession(tr)

	s.Switch("random")
	s.Send(context.Background(), "over here")
	s.Flush()

	sent := tr.sent()
	if len(sent) != 1 || sent[0].Room != "random" {
		t.Fatalf("send went to wrong room: %+v", sent)
	}
	if s.Room() != "random" {
		t.Fatalf("active room = %q", s.Room())
	}
}
