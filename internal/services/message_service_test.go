package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/store"
)

func newMsgSvc(cap int) *MessageService {
	return &MessageService{Store: store.NewRoomStore(cap), MaxTextRunes: 2000}
}

func TestSubmit_StoresAndListsBack(t *testing.T) {
	svc := newMsgSvc(100)
	ctx := context.Background()

	got, err := svc.Submit(ctx, domain.Message{ID: "1", Sender: "alice", Room: "general", Kind: domain.KindText, Text: "hi"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not assigned")
	}

	hist := svc.History(ctx, "general", 0)
	if len(hist) != 1 || hist[0].Text != "hi" {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestSubmit_DuplicateIDKeepsOriginal(t *testing.T) {
	svc := newMsgSvc(100)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, domain.Message{ID: "1", Sender: "alice", Room: "general", Text: "hi"}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	got, err := svc.Submit(ctx, domain.Message{ID: "1", Sender: "alice", Room: "general", Text: "changed"})
	if err != nil {
		t.Fatalf("re-Submit: %v", err)
	}
	if got.Text != "hi" {
		t.Fatalf("duplicate submit changed content: %q", got.Text)
	}
	if hist := svc.History(ctx, "general", 0); len(hist) != 1 || hist[0].Text != "hi" {
		t.Fatalf("history after duplicate: %+v", hist)
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := newMsgSvc(100)
	ctx := context.Background()

	cases := []domain.Message{
		{ID: "1", Room: "r", Text: "x"},                      // no sender
		{ID: "1", Sender: "a", Text: "x"},                    // no room
		{ID: "1", Sender: "a", Room: "r"},                    // no body
		{ID: "1", Sender: "  ", Room: "r", Text: "x"},        // blank sender
		{Sender: "a", Room: "r", Text: "x"},                  // no id
		{ID: "1", Sender: "a", Room: "r", Kind: "?", Text: "x"}, // bad kind
	}
	for i, m := range cases {
		if _, err := svc.Submit(ctx, m); !errors.Is(err, ErrInvalidMessage) {
			t.Fatalf("case %d: want ErrInvalidMessage, got %v", i, err)
		}
	}
}

func TestSubmit_TextRuneCap(t *testing.T) {
	svc := newMsgSvc(100)
	svc.MaxTextRunes = 10
	ctx := context.Background()

	_, err := svc.Submit(ctx, domain.Message{ID: "1", Sender: "a", Room: "r", Text: strings.Repeat("x", 11)})
	if !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("want ErrMessageTooLong, got %v", err)
	}

	// Cipher blobs are not subject to the plaintext cap.
	long := domain.Message{ID: "2", Sender: "a", Room: "r", CipherText: strings.Repeat("A", 4096)}
	if _, err := svc.Submit(ctx, long); err != nil {
		t.Fatalf("cipher blob rejected by text cap: %v", err)
	}
}

func TestHistory_CapScenario(t *testing.T) {
	svc := &MessageService{Store: store.NewRoomStore(3)}
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if _, err := svc.Submit(ctx, domain.Message{ID: fmt.Sprint(i), Sender: "a", Room: "r", Text: "x"}); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	got := svc.History(ctx, "r", 0)
	if len(got) != 3 || got[0].ID != "2" || got[1].ID != "3" || got[2].ID != "4" {
		t.Fatalf("history after cap: %+v", got)
	}
}

func TestHistory_NoLimitReturnsEverything(t *testing.T) {
	svc := &MessageService{Store: store.NewRoomStore(200)}
	ctx := context.Background()
	for i := 1; i <= 150; i++ {
		if _, err := svc.Submit(ctx, domain.Message{ID: fmt.Sprint(i), Sender: "a", Room: "r", Text: "x"}); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	if got := svc.History(ctx, "r", 0); len(got) != 150 {
		t.Fatalf("no-limit history = %d records, want all 150", len(got))
	}
	if got := svc.History(ctx, "r", 4); len(got) != 4 {
		t.Fatalf("explicit limit ignored: %d records", len(got))
	}
}

func TestHistory_UnknownRoom(t *testing.T) {
	svc := newMsgSvc(10)
	got := svc.History(context.Background(), "nonexistent-room", 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("unknown room: %#v", got)
	}
}

func TestAnnounce(t *testing.T) {
	svc := newMsgSvc(10)
	ctx := context.Background()

	m, err := svc.Announce(ctx, "general", "alice joined")
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if m.Kind != domain.KindSystem || m.ID == "" {
		t.Fatalf("unexpected system record: %+v", m)
	}
	hist := svc.History(ctx, "general", 0)
	if len(hist) != 1 || hist[0].Sender != "system" {
		t.Fatalf("banner not stored: %+v", hist)
	}
}
