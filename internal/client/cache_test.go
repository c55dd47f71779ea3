package client

import (
	"testing"

	"github.com/bledchat/server/internal/domain"
)

func msg(id, room, text string) domain.Message {
	return domain.Message{ID: id, Sender: "alice", Room: room, Kind: domain.KindText, Text: text}
}

func TestCache_InsertDedupesOnID(t *testing.T) {
	c := NewCache()
	c.SetActive("general")

	if !c.Insert(msg("1", "general", "first"), DeliveryPending) {
		t.Fatalf("first insert rejected")
	}
	if c.Insert(msg("1", "general", "replay"), DeliveryPending) {
		t.Fatalf("duplicate id accepted")
	}

	got := c.Messages("general")
	if len(got) != 1 || got[0].Msg.Text != "first" {
		t.Fatalf("unexpected entries: %+v", got)
	}

	// Same id in another room is a distinct record.
	if !c.Insert(msg("1", "random", "other"), DeliveryPending) {
		t.Fatalf("same id in different room rejected")
	}
}

func TestCache_SetDelivery(t *testing.T) {
	c := NewCache()
	c.SetActive("general")
	c.Insert(msg("1", "general", "hi"), DeliveryPending)

	c.SetDelivery("general", "1", DeliveryFailed)
	if got := c.Messages("general")[0].Delivery; got != DeliveryFailed {
		t.Fatalf("delivery = %v, want failed", got)
	}

	// Unknown ids are ignored.
	c.SetDelivery("general", "ghost", DeliveryConfirmed)
	c.SetDelivery("nowhere", "1", DeliveryConfirmed)
}

func TestCache_ReplaceGuards(t *testing.T) {
	c := NewCache()
	c.SetActive("general")
	c.Insert(msg("1", "general", "local"), DeliveryPending)

	// Nil history (failed/malformed fetch) keeps last-known-good.
	if c.Replace("general", nil) {
		t.Fatalf("nil replace accepted")
	}
	if got := c.Messages("general"); len(got) != 1 || got[0].Msg.Text != "local" {
		t.Fatalf("cache lost last-known-good: %+v", got)
	}

	// A response for a no-longer-active room is dropped.
	c.SetActive("random")
	if c.Replace("general", []domain.Message{msg("2", "general", "stale")}) {
		t.Fatalf("stale replace accepted")
	}
	if got := c.Messages("general"); len(got) != 1 || got[0].Msg.ID != "1" {
		t.Fatalf("stale response clobbered cache: %+v", got)
	}

	// An active-room replace swaps wholesale and marks everything confirmed.
	c.SetActive("general")
	if !c.Replace("general", []domain.Message{msg("2", "general", "a"), msg("3", "general", "b")}) {
		t.Fatalf("active replace rejected")
	}
	got := c.Messages("general")
	if len(got) != 2 || got[0].Msg.ID != "2" || got[1].Msg.ID != "3" {
		t.Fatalf("unexpected entries after replace: %+v", got)
	}
	for _, e := range got {
		if e.Delivery != DeliveryConfirmed {
			t.Fatalf("history entries must be confirmed")
		}
	}

	// Empty history is authoritative, unlike nil.
	if !c.Replace("general", []domain.Message{}) {
		t.Fatalf("empty replace rejected")
	}
	if got := c.Messages("general"); len(got) != 0 {
		t.Fatalf("expected cleared room, got %+v", got)
	}
}

func TestCache_ReplaceDropsDuplicateIDs(t *testing.T) {
	c := NewCache()
	c.SetActive("general")
	c.Replace("general", []domain.Message{
		msg("1", "general", "first"),
		msg("1", "general", "dup"),
		msg("2", "general", "second"),
	})
	got := c.Messages("general")
	if len(got) != 2 || got[0].Msg.Text != "first" || got[1].Msg.ID != "2" {
		t.Fatalf("dedup on replace failed: %+v", got)
	}
}

func TestCache_MessagesReturnsCopy(t *testing.T) {
	c := NewCache()
	c.SetActive("general")
	c.Insert(msg("1", "general", "hi"), DeliveryConfirmed)

	got := c.Messages("general")
	got[0].Msg.Text = "mutated"
	if c.Messages("general")[0].Msg.Text != "hi" {
		t.Fatalf("caller mutation leaked into cache")
	}

	if unknown := c.Messages("nope"); unknown == nil || len(unknown) != 0 {
		t.Fatalf("unknown room should yield empty non-nil slice, got %v", unknown)
	}
}
