package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreUserUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user, err := store.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a non-zero user id")
	}

	_, err = store.CreateUser(ctx, "alice", "other-hash")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate name: got %v, want ErrUserExists", err)
	}

	found, err := store.FindUserByName(ctx, "alice")
	if err != nil {
		t.Fatalf("find user by name: %v", err)
	}
	if found.ID != user.ID || found.Password != "hash" {
		t.Errorf("found user %+v, want id %d with original hash", found, user.ID)
	}

	_, err = store.FindUserByName(ctx, "bob")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown name: got %v, want ErrUserNotFound", err)
	}
}

func TestMemoryStoreTasksScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice, _ := store.CreateUser(ctx, "alice", "hash")
	bob, _ := store.CreateUser(ctx, "bob", "hash")

	first, err := store.CreateTask(ctx, "buy milk", alice.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err = store.CreateTask(ctx, "walk the dog", alice.ID); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err = store.CreateTask(ctx, "bob's task", bob.ID); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := store.ListTasksForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("alice has %d tasks, want 2", len(tasks))
	}
	if tasks[0].Description != "buy milk" || tasks[1].Description != "walk the dog" {
		t.Errorf("tasks out of insertion order: %+v", tasks)
	}

	// Bob cannot delete alice's task.
	deleted, err := store.DeleteTask(ctx, first.ID, bob.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted {
		t.Error("non-owner delete should be a no-op")
	}

	deleted, err = store.DeleteTask(ctx, first.ID, alice.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if !deleted {
		t.Error("owner delete should succeed")
	}

	deleted, _ = store.DeleteTask(ctx, first.ID, alice.ID)
	if deleted {
		t.Error("second delete of the same task should be a no-op")
	}
}
