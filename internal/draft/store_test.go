package draft

import (
	"testing"
	"time"

	"remitconnect/internal/core"
)

func TestStoreEmptyInitially(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(); ok {
		t.Fatal("new store must have no draft")
	}
}

func TestStoreReplaceAndGet(t *testing.T) {
	s := NewStore()
	tx := core.NewTransaction()
	tx.Option = "Send to Africa"

	s.Replace(&tx)

	got, ok := s.Get()
	if !ok {
		t.Fatal("expected a draft after Replace")
	}
	if got.Option != "Send to Africa" {
		t.Errorf("option = %q, want %q", got.Option, "Send to Africa")
	}
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	tx := core.NewTransaction()
	s.Replace(&tx)

	got, _ := s.Get()
	got.Option = "mutated"

	fresh, _ := s.Get()
	if fresh.Option == "mutated" {
		t.Error("mutating a returned draft must not affect the store")
	}
}

func TestStoreReplaceCopiesInput(t *testing.T) {
	s := NewStore()
	tx := core.NewTransaction()
	s.Replace(&tx)

	tx.Option = "mutated after replace"

	got, _ := s.Get()
	if got.Option == "mutated after replace" {
		t.Error("mutating the caller's value after Replace must not affect the store")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	tx := core.NewTransaction()
	s.Replace(&tx)

	s.Clear()

	if _, ok := s.Get(); ok {
		t.Fatal("expected no draft after Clear")
	}
}

func TestStoreReadModifyWrite(t *testing.T) {
	s := NewStore()
	tx := core.NewTransaction()
	s.Replace(&tx)

	// wizard-step discipline: read, copy-modify, replace
	cur, ok := s.Get()
	if !ok {
		t.Fatal("expected draft")
	}
	cur.SelectedWallet = "Wave"
	s.Replace(&cur)

	got, _ := s.Get()
	if got.SelectedWallet != "Wave" {
		t.Errorf("selectedWallet = %q, want Wave", got.SelectedWallet)
	}
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	tx := core.NewTransaction()
	tx.Option = "Bank transfer"
	s.Replace(&tx)

	select {
	case snap := <-ch:
		if !snap.Present || snap.Transaction.Option != "Bank transfer" {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}

	s.Clear()
	select {
	case snap := <-ch:
		if snap.Present {
			t.Error("clear must broadcast an absent snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for clear snapshot")
	}
}

func TestStoreSlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tx := core.NewTransaction()
		for i := 0; i < 100; i++ {
			s.Replace(&tx)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("writer blocked on a slow subscriber")
	}
}
