package broker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockInfo(t *testing.T) {
	svc := NewService(NewMockRepository(0))

	info, err := svc.Info(context.Background(), "1")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Name != "Robert Turner" {
		t.Fatalf("name: got %s", info.Name)
	}
	if info.Deals != 16 || info.ApprovalRate != "75%" || info.Pending != 7660 {
		t.Fatalf("unexpected stats: %+v", info)
	}
}

func TestMockInfoHonorsContext(t *testing.T) {
	repo := NewMockRepository(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Info(ctx, "1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
