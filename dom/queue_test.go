package dom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventQueueDeliversOnLaterTurn(t *testing.T) {
	d, l := newTestDocument(t)
	_, _, div, _ := chain(d)
	var got calls

	d.Root().AddEventListener("a", got.listener("doc-a"), false)
	d.Root().AddEventListener("b", got.listener("doc-b"), false)
	div.AddEventListener("c", got.listener("div-c"), false)

	q := d.Queue()
	assert.True(t, q.Enqueue(NewEvent("a", false, false)))
	assert.True(t, q.EnqueueTo(NewEvent("c", false, false), div))
	assert.True(t, q.Enqueue(NewEvent("b", false, false)))
	assert.Empty(t, got, "nothing is delivered synchronously")
	assert.Equal(t, 3, q.Pending())
	assert.Equal(t, 1, l.Pending(), "one timer for the whole batch")

	assert.Equal(t, 1, l.RunUntilIdle())
	assert.Equal(t, calls{"doc-a:at-target", "div-c:at-target", "doc-b:at-target"}, got)
	assert.Equal(t, 0, q.Pending())
}

func TestEventQueueEnqueueDuringDrainWaitsForNextFiring(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls

	late := NewEvent("late", false, false)
	d.Root().AddEventListener("first", got.listener("first", func(*Event) {
		assert.True(t, q.Enqueue(late))
		assert.Equal(t, 1, l.Pending(), "timer re-armed")
	}), false)
	d.Root().AddEventListener("second", got.listener("second"), false)
	d.Root().AddEventListener("late", got.listener("late"), false)

	q.Enqueue(NewEvent("first", false, false))
	q.Enqueue(NewEvent("second", false, false))

	assert.Equal(t, 2, l.RunUntilIdle(), "two firings")
	assert.Equal(t, calls{"first:at-target", "second:at-target", "late:at-target"}, got)
}

func TestEventQueueClose(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls
	d.Root().AddEventListener("x", got.listener("x"), false)

	pending := NewEvent("x", false, false)
	q.Enqueue(pending)
	q.Close()
	assert.True(t, q.Closed())
	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, 0, l.Pending(), "timer cancelled")

	late := NewEvent("x", false, false)
	assert.False(t, q.Enqueue(late))
	assert.False(t, q.Cancel(pending))
	assert.False(t, d.Root().DispatchScopedEvent(late))

	l.Advance(time.Second)
	assert.Empty(t, got)
	q.Close()
}

func TestEventQueueCloseDuringDrain(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls

	d.Root().AddEventListener("first", got.listener("first", func(*Event) { q.Close() }), false)
	d.Root().AddEventListener("second", got.listener("second"), false)
	q.Enqueue(NewEvent("first", false, false))
	q.Enqueue(NewEvent("second", false, false))

	l.RunUntilIdle()
	assert.Equal(t, calls{"first:at-target"}, got)
}

func TestEventQueueCancel(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls
	d.Root().AddEventListener("x", got.listener("x"), false)
	d.Root().AddEventListener("y", got.listener("y"), false)

	x, y := NewEvent("x", false, false), NewEvent("y", false, false)
	q.Enqueue(x)
	q.Enqueue(y)
	assert.True(t, q.Cancel(x))
	assert.False(t, q.Cancel(x))
	assert.False(t, q.Cancel(nil))

	l.RunUntilIdle()
	assert.Equal(t, calls{"y:at-target"}, got)
	assert.False(t, q.Cancel(y), "already fired")

	// Cancelling the only pending event disarms the timer.
	q.Enqueue(x)
	assert.True(t, q.Cancel(x))
	assert.Equal(t, 0, l.Pending())
}

func TestEventQueueCancelDuringDrain(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls

	second := NewEvent("second", false, false)
	d.Root().AddEventListener("first", got.listener("first", func(*Event) {
		assert.True(t, q.Cancel(second))
	}), false)
	d.Root().AddEventListener("second", got.listener("second"), false)
	q.Enqueue(NewEvent("first", false, false))
	q.Enqueue(second)

	l.RunUntilIdle()
	assert.Equal(t, calls{"first:at-target"}, got)
}

func TestEventQueueRejectsDuplicates(t *testing.T) {
	d, l := newTestDocument(t)
	q := d.Queue()
	var got calls
	d.Root().AddEventListener("x", got.listener("x"), false)

	ev := NewEvent("x", false, false)
	assert.True(t, q.Enqueue(ev))
	assert.False(t, q.Enqueue(ev))
	l.RunUntilIdle()
	assert.Equal(t, calls{"x:at-target"}, got)

	// Delivered events may be queued again.
	assert.True(t, q.Enqueue(ev))
}

func TestEventQueueDelay(t *testing.T) {
	d, l := newTestDocument(t, WithQueueDelay(10*time.Millisecond))
	var got calls
	d.Root().AddEventListener("x", got.listener("x"), false)

	d.Queue().Enqueue(NewEvent("x", false, false))
	assert.Equal(t, 0, l.RunUntilIdle())
	assert.Equal(t, 0, l.Advance(5*time.Millisecond))
	assert.Equal(t, 1, l.Advance(5*time.Millisecond))
	assert.Equal(t, calls{"x:at-target"}, got)
}

func TestDispatchScopedEvent(t *testing.T) {
	d, l := newTestDocument(t)
	_, body, div, _ := chain(d)
	var got calls
	body.AddEventListener(EventEditableContentChanged, got.listener("body"), false)

	assert.True(t, div.DispatchScopedEvent(NewEditableContentChangedEvent()))
	assert.Empty(t, got)
	l.RunUntilIdle()
	assert.Equal(t, calls{"body:bubbling"}, got)
}

func TestEventQueueSkipsReleasedTarget(t *testing.T) {
	d, l := newTestDocument(t, WithStrict(true))
	_, _, div, span := chain(d)
	var got calls
	span.AddEventListener("x", got.listener("span"), false)

	assert.True(t, span.DispatchScopedEvent(NewEvent("x", false, false)))
	d.Release(div)
	assert.NotPanics(t, func() { l.RunUntilIdle() })
	assert.Empty(t, got)
}
