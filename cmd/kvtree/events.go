package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guiguan/caster"
	"github.com/npillmayer/kvtree/btree"
)

// flushTimeout bounds the wait for watchers to catch up.
const flushTimeout = 2 * time.Second

// eventBus broadcasts structural tree events to watchers. Watchers format
// events into a pending buffer, which the shell drains after every command,
// so event lines appear right before the output of the command causing them.
type eventBus struct {
	cast     *caster.Caster
	mx       sync.Mutex
	pending  []string
	watchers map[string]*watcher
}

type watcher struct {
	ch   chan interface{}
	done chan struct{}
}

// barrier is published to wait for watchers to process all prior events.
type barrier struct {
	wg *sync.WaitGroup
}

func newEventBus() *eventBus {
	return &eventBus{
		cast:     caster.New(context.Background()),
		watchers: make(map[string]*watcher),
	}
}

// publish is installed as the tree's observer.
func (b *eventBus) publish(ev btree.Event) {
	if b.watching() {
		b.cast.Pub(ev)
	}
}

func (b *eventBus) watching() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.watchers) > 0
}

// watch subscribes a named watcher. Watching twice with the same name is a
// no-op.
func (b *eventBus) watch(name string) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	if _, ok := b.watchers[name]; ok {
		return nil
	}
	ch, ok := b.cast.Sub(context.Background(), 64)
	if !ok {
		return fmt.Errorf("cannot subscribe to tree events")
	}
	w := &watcher{ch: ch, done: make(chan struct{})}
	b.watchers[name] = w
	go b.consume(name, ch, w.done)
	return nil
}

func (b *eventBus) consume(name string, ch <-chan interface{}, done chan<- struct{}) {
	defer close(done)
	for msg := range ch {
		switch m := msg.(type) {
		case btree.Event:
			b.mx.Lock()
			b.pending = append(b.pending, fmt.Sprintf("[%s] %s", name, m))
			b.mx.Unlock()
		case barrier:
			m.wg.Done()
		}
	}
}

// unwatch removes a named watcher and waits for it to terminate. The caster
// closes the subscriber channel, which ends the watcher's consume loop.
func (b *eventBus) unwatch(name string) {
	b.mx.Lock()
	w, ok := b.watchers[name]
	delete(b.watchers, name)
	b.mx.Unlock()
	if !ok {
		return
	}
	b.cast.Unsub(w.ch)
	select {
	case <-w.done:
	case <-time.After(flushTimeout):
		T().Errorf("watcher %s did not terminate", name)
	}
}

// flush waits until all watchers have seen every event published so far and
// returns the pending event lines.
func (b *eventBus) flush() []string {
	b.mx.Lock()
	n := len(b.watchers)
	b.mx.Unlock()
	if n > 0 {
		var wg sync.WaitGroup
		wg.Add(n)
		b.cast.Pub(barrier{wg: &wg})
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(flushTimeout):
			T().Errorf("timeout waiting for event watchers")
		}
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	lines := b.pending
	b.pending = nil
	return lines
}

func (b *eventBus) close() {
	b.mx.Lock()
	names := make([]string, 0, len(b.watchers))
	for name := range b.watchers {
		names = append(names, name)
	}
	b.mx.Unlock()
	for _, name := range names {
		b.unwatch(name)
	}
	b.cast.Close()
}
