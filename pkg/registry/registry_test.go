package registry

import (
	"fmt"
	"testing"
)

type entry struct {
	Name  string
	Value int
}

func TestBaseRegistry_Register(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "register valid item", key: "alpha", wantErr: false},
		{name: "register empty name", key: "", wantErr: true},
		{name: "register duplicate name", key: "alpha", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.key, entry{Name: tt.key})
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBaseRegistry_Get(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	want := entry{Name: "alpha", Value: 1}
	if err := reg.Register("alpha", want); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Get("alpha")
	if !ok || got != want {
		t.Errorf("Get(alpha) = %v, %v, want %v, true", got, ok, want)
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}
}

func TestBaseRegistry_Order(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	keys := []string{"gamma", "alpha", "beta"}
	for i, k := range keys {
		if err := reg.Register(k, entry{Name: k, Value: i}); err != nil {
			t.Fatalf("Register(%s) error = %v", k, err)
		}
	}

	names := reg.Names()
	if len(names) != len(keys) {
		t.Fatalf("Names() length = %d, want %d", len(names), len(keys))
	}
	for i, k := range keys {
		if names[i] != k {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], k)
		}
	}

	items := reg.List()
	for i, k := range keys {
		if items[i].Name != k {
			t.Errorf("List()[%d].Name = %s, want %s", i, items[i].Name, k)
		}
	}

	// Removal keeps the remaining order intact.
	if err := reg.Remove("alpha"); err != nil {
		t.Fatalf("Remove(alpha) error = %v", err)
	}
	names = reg.Names()
	if len(names) != 2 || names[0] != "gamma" || names[1] != "beta" {
		t.Errorf("Names() after remove = %v, want [gamma beta]", names)
	}
}

func TestBaseRegistry_Remove(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	if err := reg.Register("alpha", entry{Name: "alpha"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.Remove("alpha"); err != nil {
		t.Errorf("Remove(alpha) error = %v", err)
	}
	if _, ok := reg.Get("alpha"); ok {
		t.Error("item still present after Remove")
	}
	if err := reg.Remove("alpha"); err == nil {
		t.Error("Remove() of missing item should error")
	}
}

func TestBaseRegistry_Clear(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	for i := 0; i < 3; i++ {
		if err := reg.Register(fmt.Sprintf("item-%d", i), entry{Value: i}); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	reg.Clear()

	if reg.Count() != 0 {
		t.Errorf("Count() after clear = %d, want 0", reg.Count())
	}
	if names := reg.Names(); len(names) != 0 {
		t.Errorf("Names() after clear = %v, want empty", names)
	}
}

func TestBaseRegistry_Concurrency(t *testing.T) {
	reg := NewBaseRegistry[entry]()

	done := make(chan bool, 2)

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			_ = reg.Register(fmt.Sprintf("c-%d", i), entry{Value: i})
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			reg.Get(fmt.Sprintf("c-%d", i))
			reg.Count()
			reg.Names()
		}
	}()

	<-done
	<-done

	if count := reg.Count(); count != 100 {
		t.Errorf("Count() after concurrent access = %d, want 100", count)
	}
}
