package repository

import (
	"context"
	"testing"

	"geofence-control-plane/internal/tracker/domain"
)

func TestMemoryStore_GetReturnsNilWhenUnknown(t *testing.T) {
	store := NewMemoryStore()

	u, err := store.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u != nil {
		t.Errorf("Get = %+v, want nil", u)
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	batt := 80
	if err := store.Save(ctx, &domain.User{Name: "alice", DeviceID: "phone", CurrentFence: "home", Battery: &batt}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	u, err := store.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u == nil {
		t.Fatal("Get returned nil after Save")
	}
	if u.DeviceID != "phone" {
		t.Errorf("DeviceID = %q, want %q", u.DeviceID, "phone")
	}
	if u.CurrentFence != "home" {
		t.Errorf("CurrentFence = %q, want %q", u.CurrentFence, "home")
	}
	if u.Battery == nil || *u.Battery != 80 {
		t.Errorf("Battery = %v, want 80", u.Battery)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Save(ctx, &domain.User{Name: "alice", CurrentFence: "home"})
	u, _ := store.Get(ctx, "alice")
	u.CurrentFence = "elsewhere"

	again, _ := store.Get(ctx, "alice")
	if again.CurrentFence != "home" {
		t.Errorf("CurrentFence = %q, want %q (mutation through returned pointer leaked)", again.CurrentFence, "home")
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Save(ctx, &domain.User{Name: "bob"})
	store.Save(ctx, &domain.User{Name: "alice"})

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("List returned %d users, want 2", len(users))
	}
	if users[0].Name != "alice" || users[1].Name != "bob" {
		t.Errorf("List order = [%s %s], want [alice bob]", users[0].Name, users[1].Name)
	}
}

func TestMemoryStore_DeleteAndDeleteAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Save(ctx, &domain.User{Name: "alice"})
	store.Save(ctx, &domain.User{Name: "bob"})

	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if u, _ := store.Get(ctx, "alice"); u != nil {
		t.Error("alice should be gone after Delete")
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	users, _ := store.List(ctx)
	if len(users) != 0 {
		t.Errorf("List returned %d users after DeleteAll, want 0", len(users))
	}
}
