package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCodecHooks{}
	c.OnReadStart(ctx, "paths")
	c.OnReadComplete(ctx, "paths", 12, time.Second, nil)
	c.OnWriteStart(ctx, "json", 12)
	c.OnWriteComplete(ctx, "json", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	if _, ok := Codec().(NoopCodecHooks); !ok {
		t.Error("Codec() should return NoopCodecHooks by default")
	}

	custom := &testCodecHooks{}
	SetCodecHooks(custom)
	defer SetCodecHooks(NoopCodecHooks{})
	if Codec() != custom {
		t.Error("SetCodecHooks should set custom hooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	defer SetCodecHooks(NoopCodecHooks{})

	custom := &testCodecHooks{}
	SetCodecHooks(custom)
	SetCodecHooks(nil)

	if Codec() != custom {
		t.Error("SetCodecHooks(nil) should be ignored")
	}
}

type testCodecHooks struct{ NoopCodecHooks }
