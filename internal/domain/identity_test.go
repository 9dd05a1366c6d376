package domain

import "testing"

func TestCanMutate(t *testing.T) {
	poem := &Poem{OwnerID: "U1"}

	tests := []struct {
		name  string
		ident *Identity
		want  bool
	}{
		{"nil identity", nil, false},
		{"empty handle", &Identity{}, false},
		{"different handle", &Identity{Handle: "U2"}, false},
		{"owner", &Identity{Handle: "U1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(poem, tt.ident); got != tt.want {
				t.Errorf("CanMutate = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("ownerless poem", func(t *testing.T) {
		if CanMutate(&Poem{}, &Identity{Handle: "U1"}) {
			t.Error("poem without owner should not be mutable")
		}
	})
	t.Run("nil poem", func(t *testing.T) {
		if CanMutate(nil, &Identity{Handle: "U1"}) {
			t.Error("nil poem should not be mutable")
		}
	})
}

func TestDefaultSignature(t *testing.T) {
	tests := []struct {
		name  string
		ident *Identity
		want  string
	}{
		{"display name wins", &Identity{DisplayName: "芭蕉", Email: "b@example.com"}, "芭蕉"},
		{"email fallback", &Identity{Email: "b@example.com"}, "b@example.com"},
		{"nothing", &Identity{Handle: "U1"}, ""},
		{"nil identity", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultSignature(tt.ident); got != tt.want {
				t.Errorf("DefaultSignature = %q, want %q", got, tt.want)
			}
		})
	}
}
