// Package mutation turns tree mutations into awaitable steps.
//
// Observers in package dom deliver records asynchronously. Await registers a
// one-shot observer on a subtree, performs a mutation and blocks until the
// first matching batch arrives, so a caller can run "mutate, then read the
// result or move the caret, then continue" in order.
package mutation

import (
	"context"
	"fmt"
	"sync"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/logger"
)

var (
	// Structure observes child-list changes anywhere below the target.
	Structure = dom.ObserveOptions{ChildList: true, Subtree: true}
	// Text observes text value changes anywhere below the target.
	Text = dom.ObserveOptions{CharacterData: true, Subtree: true}
	// All observes both.
	All = dom.ObserveOptions{ChildList: true, CharacterData: true, Subtree: true}
)

// Await observes target with opts, runs mutate and waits for the first batch
// of records. The observer is disconnected as soon as that batch arrives.
// An error from mutate is returned without waiting.
//
// There is no timeout of its own: if mutate succeeds without producing a
// matching record, Await only returns when ctx is done.
func Await(ctx context.Context, target *dom.Node, opts dom.ObserveOptions, mutate func() error) ([]dom.MutationRecord, error) {
	done := make(chan []dom.MutationRecord, 1)
	var once sync.Once

	observer := dom.NewMutationObserver(func(records []dom.MutationRecord, o *dom.MutationObserver) {
		once.Do(func() {
			o.Disconnect()
			done <- records
		})
	})
	observer.Observe(target, opts)

	if err := mutate(); err != nil {
		observer.Disconnect()
		return nil, fmt.Errorf("mutation on <%s>: %w", target.NodeName(), err)
	}

	select {
	case records := <-done:
		logger.DebugTagf("mutation", "observed %d record(s) on <%s>", len(records), target.NodeName())
		return records, nil
	case <-ctx.Done():
		observer.Disconnect()
		return nil, ctx.Err()
	}
}

// AddedNode returns the first node added by records, or nil.
func AddedNode(records []dom.MutationRecord) *dom.Node {
	for _, r := range records {
		if len(r.AddedNodes) > 0 {
			return r.AddedNodes[0]
		}
	}
	return nil
}
