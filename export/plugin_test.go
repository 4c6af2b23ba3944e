// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import "testing"

func TestRegisterIsIdempotent(t *testing.T) {
	before := len(snapshotRegistry())
	Register(Plugin{Name: "dup-test"})
	Register(Plugin{Name: "dup-test"})
	defer Unregister("dup-test")

	after := len(snapshotRegistry())
	if after != before+1 {
		t.Fatalf("registry length\nhave %d\nwant %d (double-register should be a no-op)", after, before+1)
	}
}

func TestUnregisterRemovesByName(t *testing.T) {
	Register(Plugin{Name: "remove-me"})
	Unregister("remove-me")
	for _, p := range snapshotRegistry() {
		if p.Name == "remove-me" {
			t.Fatal("plug-in still present after Unregister")
		}
	}
}

func TestUseExtensionPreservesInsertionOrder(t *testing.T) {
	w := newTestWriteState()
	w.useExtension("KHR_c", false)
	w.useExtension("KHR_a", false)
	w.useExtension("KHR_b", true)

	used := extensionList(w.extUsedOrder)
	want := []string{"KHR_c", "KHR_a", "KHR_b"}
	if len(used) != len(want) {
		t.Fatalf("len(used)\nhave %d\nwant %d", len(used), len(want))
	}
	for i := range want {
		if used[i] != want[i] {
			t.Fatalf("used[%d]\nhave %s\nwant %s", i, used[i], want[i])
		}
	}

	required := extensionList(w.extRequiredOrder)
	if len(required) != 1 || required[0] != "KHR_b" {
		t.Fatalf("required\nhave %v\nwant [KHR_b]", required)
	}
}

func TestExtensionListNilWhenEmpty(t *testing.T) {
	if got := extensionList(nil); got != nil {
		t.Fatalf("extensionList(nil)\nhave %v\nwant nil", got)
	}
}
