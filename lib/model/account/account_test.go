package account

import (
	"testing"
)

const (
	rootGUID     = "a0000000000000000000000000000001"
	assetsGUID   = "a0000000000000000000000000000002"
	checkingGUID = "a0000000000000000000000000000003"
	savingsGUID  = "a0000000000000000000000000000004"
)

func populated(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, a := range []*Account{
		{GUID: rootGUID, Name: "Root Account", Type: ROOT},
		{GUID: assetsGUID, Name: "Assets", Type: ASSET, ParentGUID: rootGUID},
		{GUID: checkingGUID, Name: "Checking", Type: BANK, ParentGUID: assetsGUID},
		{GUID: savingsGUID, Name: "Savings", Type: BANK, ParentGUID: assetsGUID},
	} {
		if err := reg.Add(a); err != nil {
			t.Fatalf("Add(%s) returned unexpected error: %v", a.GUID, err)
		}
	}
	return reg
}

func TestAddRejectsUnknownParent(t *testing.T) {
	reg := populated(t)
	a := &Account{GUID: "a0000000000000000000000000000005", Name: "Orphan", Type: EXPENSE, ParentGUID: "ffffffffffffffffffffffffffffffff"}

	if err := reg.Add(a); err == nil {
		t.Error("Add() with an unknown parent returned no error, expected one")
	}
}

func TestAddRejectsSecondRoot(t *testing.T) {
	reg := populated(t)

	err := reg.Add(&Account{GUID: "a0000000000000000000000000000005", Name: "Another Root", Type: ROOT})

	if err == nil {
		t.Error("Add() of a second ROOT account returned no error, expected one")
	}
}

func TestRootIsTracked(t *testing.T) {
	reg := populated(t)

	root, ok := reg.Root()

	if !ok {
		t.Fatal("Root() found no root account")
	}
	if root.GUID != rootGUID {
		t.Errorf("Root() = %s, want %s", root.GUID, rootGUID)
	}
}

func TestMoveRejectsCycle(t *testing.T) {
	reg := populated(t)

	if err := reg.Move(assetsGUID, checkingGUID); err == nil {
		t.Error("Move() of an account under its own child returned no error, expected one")
	}
	if err := reg.Move(assetsGUID, assetsGUID); err == nil {
		t.Error("Move() of an account under itself returned no error, expected one")
	}
}

func TestMoveReparents(t *testing.T) {
	reg := populated(t)

	if err := reg.Move(savingsGUID, rootGUID); err != nil {
		t.Fatalf("Move() returned unexpected error: %v", err)
	}

	a, _ := reg.Get(savingsGUID)
	if a.ParentGUID != rootGUID {
		t.Errorf("parent of %s = %s after Move(), want %s", savingsGUID, a.ParentGUID, rootGUID)
	}
}

type splitCount int

func (c splitCount) CountSplits(string) (int, error) {
	return int(c), nil
}

func TestRemoveRules(t *testing.T) {
	reg := populated(t)

	if err := reg.Remove(assetsGUID, splitCount(0)); err == nil {
		t.Error("Remove() of an account with children returned no error, expected one")
	}
	if err := reg.Remove(checkingGUID, splitCount(2)); err == nil {
		t.Error("Remove() of an account with splits returned no error, expected one")
	}
	if err := reg.Remove(checkingGUID, splitCount(0)); err != nil {
		t.Errorf("Remove() of a leaf without splits returned unexpected error: %v", err)
	}
	if _, ok := reg.Get(checkingGUID); ok {
		t.Error("account still present after Remove()")
	}
}

func TestChildrenSortedByName(t *testing.T) {
	reg := populated(t)

	children := reg.Children(assetsGUID)

	if len(children) != 2 {
		t.Fatalf("Children() returned %d accounts, want 2", len(children))
	}
	if children[0].Name != "Checking" || children[1].Name != "Savings" {
		t.Errorf("Children() = [%s, %s], want name order [Checking, Savings]", children[0].Name, children[1].Name)
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("BANK")
	if err != nil {
		t.Fatalf("ParseType(BANK) returned unexpected error: %v", err)
	}
	if typ != BANK {
		t.Errorf("ParseType(BANK) = %v, want %v", typ, BANK)
	}
	if _, err := ParseType("PIGGYBANK"); err == nil {
		t.Error("ParseType() of an unknown type returned no error, expected one")
	}
}
