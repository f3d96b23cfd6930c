package safe_test

import (
	"testing"

	"github.com/df-mc/clientupdate/server/internal/safe"
)

func TestAssertPasses(t *testing.T) {
	safe.Assert(1+1 == 2, "math broke")
}

func TestCheckCatchesAssertFailure(t *testing.T) {
	ok := safe.Check(func() {
		safe.Assert(false, "expected failure: %d", 7)
	})
	if ok {
		t.Fatalf("Check() = true, want false after a failed Assert")
	}
}

func TestCheckRepanicsOtherPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Check swallowed a non-assertion panic")
		}
	}()
	safe.Check(func() {
		panic("unrelated panic")
	})
}
