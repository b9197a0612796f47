package sim

import (
	"testing"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

func TestStatePool(t *testing.T) {
	p := NewStatePool(3)

	s := p.GetAndCopy(dynamo.State{1, 2, 3})
	if len(s) != 3 || s[2] != 3 {
		t.Fatalf("GetAndCopy = %v", s)
	}
	p.Put(s)

	fresh := p.Get()
	if len(fresh) != 3 {
		t.Fatalf("Get returned length %d", len(fresh))
	}
	for i, v := range fresh {
		if v != 0 {
			t.Errorf("recycled state not zeroed at %d: %v", i, v)
		}
	}

	// wrong-sized states are dropped
	p.Put(dynamo.State{1})
}
