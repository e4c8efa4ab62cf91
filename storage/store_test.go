package storage

import (
	"context"
	"testing"
)

func TestNoopStoreIsAlwaysAMiss(t *testing.T) {
	var s NoopStore
	ctx := context.Background()

	if err := s.Put(ctx, "hanamikoji:room:ABC123", "{}", 60); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if _, ok, err := s.Get(ctx, "hanamikoji:room:ABC123"); err != nil || ok {
		t.Fatalf("expected a miss with no error, got ok=%v err=%v", ok, err)
	}
	if err := s.Delete(ctx, "hanamikoji:room:ABC123"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
