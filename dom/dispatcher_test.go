package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPhaseOrdering(t *testing.T) {
	d, _ := newTestDocument(t)
	_, body, div, span := chain(d)
	var got calls

	body.AddEventListener(EventClick, got.listener("body-capture"), true)
	body.AddEventListener(EventClick, got.listener("body-bubble"), false)
	div.AddEventListener(EventClick, got.listener("div-bubble"), false)
	div.AddEventListener(EventClick, got.listener("div-capture"), true)
	span.AddEventListener(EventClick, got.listener("span"), false)

	ev := NewBubblingCancelableEvent(EventClick)
	assert.True(t, span.DispatchEvent(ev))
	assert.Equal(t, calls{
		"body-capture:capturing",
		"div-capture:capturing",
		"span:at-target",
		"div-bubble:bubbling",
		"body-bubble:bubbling",
	}, got)

	assert.Equal(t, NoneEventPhase, ev.EventPhase())
	assert.Nil(t, ev.CurrentTarget())
	assert.Equal(t, span, ev.Target())
	assert.False(t, ev.Dispatching())
}

func TestDispatchAtTargetIgnoresCaptureFlag(t *testing.T) {
	d, _ := newTestDocument(t)
	_, _, _, span := chain(d)
	var got calls

	span.AddEventListener(EventClick, got.listener("bubble-1"), false)
	span.AddEventListener(EventClick, got.listener("capture"), true)
	span.AddEventListener(EventClick, got.listener("bubble-2"), false)

	span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	assert.Equal(t, calls{"bubble-1:at-target", "capture:at-target", "bubble-2:at-target"}, got)
}

func TestDispatchNonBubblingSkipsBubblePhase(t *testing.T) {
	d, _ := newTestDocument(t)
	_, body, _, span := chain(d)
	var got calls

	body.AddEventListener(EventLoad, got.listener("body-capture"), true)
	body.AddEventListener(EventLoad, got.listener("body-bubble"), false)
	span.AddEventListener(EventLoad, got.listener("span"), false)

	span.DispatchEvent(NewCancelableEvent(EventLoad))
	assert.Equal(t, calls{"body-capture:capturing", "span:at-target"}, got)
}

func TestPreventDefaultOnlyWhenCancelable(t *testing.T) {
	tests := map[string]struct {
		bubbles    bool
		cancelable bool
		prevented  bool
	}{
		"non-cancelable":           {bubbles: true, cancelable: false, prevented: false},
		"non-cancelable no bubble": {bubbles: false, cancelable: false, prevented: false},
		"cancelable":               {bubbles: true, cancelable: true, prevented: true},
		"cancelable no bubble":     {bubbles: false, cancelable: true, prevented: true},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			d, _ := newTestDocument(t)
			_, _, div, span := chain(d)
			div.AddEventListener("custom", NewListener(func(ev *Event) { ev.PreventDefault() }), true)
			span.AddEventListener("custom", NewListener(func(ev *Event) { ev.PreventDefault() }), false)

			ev := NewEvent("custom", tc.bubbles, tc.cancelable)
			proceed := span.DispatchEvent(ev)
			assert.Equal(t, tc.prevented, ev.DefaultPrevented())
			assert.Equal(t, !tc.prevented, proceed)
		})
	}

	ev := NewEvent("custom", false, false)
	ev.PreventDefault()
	assert.False(t, ev.DefaultPrevented())
}

func TestStopPropagationScope(t *testing.T) {
	tests := map[string]struct {
		stopAt string
		want   calls
	}{
		"at target": {
			stopAt: "span-1",
			want:   calls{"body-capture:capturing", "div-capture:capturing", "span-1:at-target", "span-2:at-target"},
		},
		"while capturing": {
			stopAt: "body-capture",
			want:   calls{"body-capture:capturing", "body-capture-2:capturing"},
		},
		"while bubbling": {
			stopAt: "div-bubble",
			want: calls{
				"body-capture:capturing", "div-capture:capturing",
				"span-1:at-target", "span-2:at-target",
				"div-bubble:bubbling", "div-bubble-2:bubbling",
			},
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			d, _ := newTestDocument(t)
			_, body, div, span := chain(d)
			var got calls
			add := func(n *Node, name string, capture bool) {
				if name == tc.stopAt {
					n.AddEventListener(EventClick, got.listener(name, (*Event).StopPropagation), capture)
					return
				}
				n.AddEventListener(EventClick, got.listener(name), capture)
			}
			add(body, "body-capture", true)
			add(body, "body-capture-2", true)
			add(div, "div-capture", true)
			add(span, "span-1", false)
			add(span, "span-2", false)
			add(div, "div-bubble", false)
			add(div, "div-bubble-2", false)
			add(body, "body-bubble", false)

			ev := NewBubblingCancelableEvent(EventClick)
			span.DispatchEvent(ev)
			assert.Equal(t, tc.want, got)
			assert.False(t, ev.PropagationStopped(), "flags reset after dispatch")
		})
	}
}

func TestStopImmediatePropagationScope(t *testing.T) {
	d, _ := newTestDocument(t)
	_, body, div, span := chain(d)
	var got calls

	body.AddEventListener(EventClick, got.listener("body-capture"), true)
	span.AddEventListener(EventClick, got.listener("span-1", (*Event).StopImmediatePropagation), false)
	span.AddEventListener(EventClick, got.listener("span-2"), false)
	span.AddEventListener(EventClick, got.listener("span-3"), true)
	div.AddEventListener(EventClick, got.listener("div-bubble"), false)

	span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	assert.Equal(t, calls{"body-capture:capturing", "span-1:at-target"}, got)
}

func TestDuplicateListenerRunsOnce(t *testing.T) {
	d, _ := newTestDocument(t)
	_, _, div, span := chain(d)
	var got calls
	l := got.listener("div")

	assert.True(t, div.AddEventListener(EventClick, l, false))
	assert.False(t, div.AddEventListener(EventClick, l, false))

	span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	assert.Equal(t, calls{"div:bubbling"}, got)
}

func TestListenerRemovedDuringDispatchStillFires(t *testing.T) {
	d, _ := newTestDocument(t)
	_, _, _, span := chain(d)
	var got calls

	second := got.listener("second")
	span.AddEventListener(EventClick, got.listener("first", func(*Event) {
		span.RemoveEventListener(EventClick, second, false)
		span.AddEventListener(EventClick, got.listener("added"), false)
	}), false)
	span.AddEventListener(EventClick, second, false)

	span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	assert.Equal(t, calls{"first:at-target", "second:at-target"}, got)

	got = nil
	span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	assert.Equal(t, calls{"first:at-target", "added:at-target"}, got)
}

func TestNestedDispatch(t *testing.T) {
	d, _ := newTestDocument(t)
	_, body, div, span := chain(d)
	var got calls

	outer := NewBubblingCancelableEvent(EventClick)
	div.AddEventListener(EventClick, got.listener("div", func(ev *Event) {
		assert.False(t, span.DispatchEvent(ev), "same event cannot be re-dispatched")
		body.DispatchEvent(NewEvent("inner", false, false))
		assert.Equal(t, div, ev.CurrentTarget(), "nested dispatch leaves outer state intact")
	}), false)
	body.AddEventListener("inner", got.listener("inner"), false)
	body.AddEventListener(EventClick, got.listener("body"), false)

	span.DispatchEvent(outer)
	assert.Equal(t, calls{"div:bubbling", "inner:at-target", "body:bubbling"}, got)
}

func TestStalePathEntriesAreSkipped(t *testing.T) {
	t.Run("detached", func(t *testing.T) {
		d, _ := newTestDocument(t)
		html, body, div, span := chain(d)
		var got calls

		span.AddEventListener(EventClick, got.listener("span", func(*Event) { div.Remove() }), false)
		div.AddEventListener(EventClick, got.listener("div"), false)
		body.AddEventListener(EventClick, got.listener("body"), false)
		html.AddEventListener(EventClick, got.listener("html"), false)

		span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
		// div is no longer under the document node, body and html still are.
		assert.Equal(t, calls{"span:at-target", "body:bubbling", "html:bubbling"}, got)
	})

	t.Run("released", func(t *testing.T) {
		d, _ := newTestDocument(t)
		_, body, div, span := chain(d)
		var got calls

		body.AddEventListener(EventClick, got.listener("body-capture", func(*Event) { d.Release(div) }), true)
		div.AddEventListener(EventClick, got.listener("div-capture"), true)
		span.AddEventListener(EventClick, got.listener("span"), false)
		body.AddEventListener(EventClick, got.listener("body"), false)

		ev := NewBubblingCancelableEvent(EventClick)
		span.DispatchEvent(ev)
		assert.Equal(t, calls{"body-capture:capturing", "body:bubbling"}, got)
		assert.Nil(t, d.Node(span.ID()))
	})
}

func TestDispatchDetachedTargetRunsAtTargetOnly(t *testing.T) {
	d, _ := newTestDocument(t)
	n := d.CreateElement("div")
	var got calls
	n.AddEventListener(EventClick, got.listener("n"), true)

	assert.True(t, n.DispatchEvent(NewBubblingCancelableEvent(EventClick)))
	assert.Equal(t, calls{"n:at-target"}, got)
}

func TestDispatchNilTarget(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		d, _ := newTestDocument(t)
		assert.False(t, d.Dispatcher().Dispatch(NewEvent("x", true, true), nil))

		n := d.CreateElement("div")
		d.Release(n)
		assert.False(t, d.Dispatcher().Dispatch(NewEvent("x", true, true), n))
	})

	t.Run("strict", func(t *testing.T) {
		d, _ := newTestDocument(t, WithStrict(true))
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrNilTarget)
		}()
		var n *Node
		d.Dispatcher().Dispatch(NewEvent("x", true, true), n)
	})

	t.Run("nil event", func(t *testing.T) {
		d, l := newTestDocument(t, WithStrict(true))
		assert.NotPanics(t, func() {
			assert.False(t, d.Dispatcher().Dispatch(nil, nil))
			assert.False(t, d.Dispatcher().DispatchScoped(nil, nil))
			assert.False(t, d.Root().DispatchScopedEvent(nil))
		})
		assert.Equal(t, 0, d.Queue().Pending())
		assert.Equal(t, 0, l.Pending())
	})
}

func TestListenerPanicIsRecovered(t *testing.T) {
	d, _ := newTestDocument(t)
	_, _, div, span := chain(d)
	var got calls

	span.AddEventListener(EventClick, NewListener(func(*Event) { panic("boom") }), false)
	span.AddEventListener(EventClick, got.listener("after"), false)
	div.AddEventListener(EventClick, got.listener("div"), false)

	assert.NotPanics(t, func() {
		span.DispatchEvent(NewBubblingCancelableEvent(EventClick))
	})
	assert.Equal(t, calls{"after:at-target", "div:bubbling"}, got)
}

func TestComposedPathDuringDispatch(t *testing.T) {
	d, _ := newTestDocument(t)
	html, body, div, span := chain(d)
	var path []EventTarget

	div.AddEventListener(EventClick, NewListener(func(ev *Event) { path = ev.ComposedPath() }), false)
	ev := NewBubblingCancelableEvent(EventClick)
	span.DispatchEvent(ev)

	assert.Equal(t, []EventTarget{span, div, body, html, d.Root()}, path)
	assert.Empty(t, ev.ComposedPath())
	assert.Nil(t, ev.path, "path nodes are not retained after dispatch")
}

func TestInitEventIgnoredWhileDispatching(t *testing.T) {
	d, _ := newTestDocument(t)
	_, _, _, span := chain(d)
	ev := NewEvent("a", false, false)

	span.AddEventListener("a", NewListener(func(ev *Event) { ev.InitEvent("b", true, true) }), false)
	span.DispatchEvent(ev)
	assert.Equal(t, "a", ev.Type())

	ev.InitEvent("b", true, true)
	assert.Equal(t, "b", ev.Type())
	assert.True(t, ev.Bubbles())
	assert.True(t, ev.Cancelable())
}

func TestGlobalTarget(t *testing.T) {
	d, _ := newTestDocument(t)
	win := NewGlobalTarget("window", d.Dispatcher())
	var got calls

	assert.True(t, win.AddEventListener(EventLoad, got.listener("capture"), true))
	assert.True(t, win.AddEventListener(EventLoad, got.listener("bubble"), false))
	assert.True(t, win.DispatchEvent(NewEvent(EventLoad, true, false)))
	assert.Equal(t, calls{"capture:at-target", "bubble:at-target"}, got)
	assert.Equal(t, "#window", win.String())
}
