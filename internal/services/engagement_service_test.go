package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

type memberKey struct {
	user uuid.UUID
	post uuid.UUID
}

// memOps backs membershipOps with an in-memory set.
func memOps(members map[memberKey]bool) membershipOps {
	return membershipOps{
		find: func(userID, postID uuid.UUID) (bool, error) {
			return members[memberKey{userID, postID}], nil
		},
		add: func(userID, postID uuid.UUID) error {
			members[memberKey{userID, postID}] = true
			return nil
		},
		remove: func(userID, postID uuid.UUID) error {
			delete(members, memberKey{userID, postID})
			return nil
		},
		count: func(postID uuid.UUID) (int64, error) {
			var n int64
			for k := range members {
				if k.post == postID {
					n++
				}
			}
			return n, nil
		},
	}
}

func TestToggleMembership_OnThenOff(t *testing.T) {
	members := map[memberKey]bool{}
	ops := memOps(members)
	user := uuid.New()
	post := uuid.New()

	on, count, err := toggleMembership(ops, user, post)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !on || count != 1 {
		t.Fatalf("first toggle = (%v, %d), want (true, 1)", on, count)
	}

	on, count, err = toggleMembership(ops, user, post)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if on || count != 0 {
		t.Fatalf("second toggle = (%v, %d), want (false, 0)", on, count)
	}
	if len(members) != 0 {
		t.Errorf("membership rows left after double toggle: %v", members)
	}
}

func TestToggleMembership_CountsOtherUsers(t *testing.T) {
	members := map[memberKey]bool{}
	ops := memOps(members)
	post := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	if _, _, err := toggleMembership(ops, alice, post); err != nil {
		t.Fatal(err)
	}
	on, count, err := toggleMembership(ops, bob, post)
	if err != nil {
		t.Fatal(err)
	}
	if !on || count != 2 {
		t.Fatalf("bob toggle = (%v, %d), want (true, 2)", on, count)
	}

	// Bob un-toggles; alice's membership survives.
	on, count, err = toggleMembership(ops, bob, post)
	if err != nil {
		t.Fatal(err)
	}
	if on || count != 1 {
		t.Fatalf("bob second toggle = (%v, %d), want (false, 1)", on, count)
	}
	if !members[memberKey{alice, post}] {
		t.Error("alice's membership was removed by bob's toggle")
	}
}

func TestToggleMembership_FindErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	ops := membershipOps{
		find: func(uuid.UUID, uuid.UUID) (bool, error) { return false, boom },
		add: func(uuid.UUID, uuid.UUID) error {
			t.Fatal("add must not run after a find error")
			return nil
		},
	}

	if _, _, err := toggleMembership(ops, uuid.New(), uuid.New()); !errors.Is(err, boom) {
		t.Errorf("error = %v, want the find error", err)
	}
}

func TestToggleMembership_AddErrorPropagates(t *testing.T) {
	boom := errors.New("unique violation")
	ops := membershipOps{
		find: func(uuid.UUID, uuid.UUID) (bool, error) { return false, nil },
		add:  func(uuid.UUID, uuid.UUID) error { return boom },
	}

	if _, _, err := toggleMembership(ops, uuid.New(), uuid.New()); !errors.Is(err, boom) {
		t.Errorf("error = %v, want the add error", err)
	}
}
