package notify

import "testing"

func TestNotifyPathFilter(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		change Change
		want   bool
	}{
		{"all", "", Change{Path: "logging.level"}, true},
		{"exact", "outliner.dragAndDrop", Change{Path: "outliner.dragAndDrop"}, true},
		{"section", "outliner", Change{Path: "outliner.defaultIndentChars"}, true},
		{"sibling prefix", "outliner.drag", Change{Path: "outliner.dragAndDrop"}, false},
		{"other section", "outliner", Change{Path: "logging.level"}, false},
		{"reload reaches everyone", "outliner", Change{Type: ChangeReload}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			got := false
			n.SubscribePath(tt.prefix, func(Change) { got = true })
			n.Notify(tt.change)
			if got != tt.want {
				t.Errorf("delivered = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	count := 0
	id := n.Subscribe(func(Change) { count++ })
	n.Notify(Change{Path: "a"})
	n.Unsubscribe(id)
	n.Unsubscribe(id)
	n.Notify(Change{Path: "a"})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0", n.Len())
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	n := New()
	var id Subscription
	calls := 0
	id = n.Subscribe(func(Change) {
		calls++
		n.Unsubscribe(id)
	})
	n.Notify(Change{Path: "a"})
	n.Notify(Change{Path: "a"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		t    ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeReload, "reload"},
		{ChangeType(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}
