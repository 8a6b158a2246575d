// Package observability provides hooks for instrumenting codec operations.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific logging or metrics backends. Consumers register
// hooks at startup to receive events about mappings being read and written.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(&myCodecHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Codec().OnReadStart(ctx, format)
//	// ... decode ...
//	observability.Codec().OnReadComplete(ctx, format, leaves, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from the readers and writers in nestio.
type CodecHooks interface {
	// Read events
	OnReadStart(ctx context.Context, format string)
	OnReadComplete(ctx context.Context, format string, leaves int, duration time.Duration, err error)

	// Write events
	OnWriteStart(ctx context.Context, format string, leaves int)
	OnWriteComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnReadStart(context.Context, string)                               {}
func (NoopCodecHooks) OnReadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopCodecHooks) OnWriteStart(context.Context, string, int)                         {}
func (NoopCodecHooks) OnWriteComplete(context.Context, string, time.Duration, error)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks CodecHooks = NoopCodecHooks{}
	hooksMu    sync.RWMutex
)

// SetCodecHooks registers custom codec hooks. A nil h is ignored.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}
