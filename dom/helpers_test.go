package dom

import (
	"io"
	"testing"
	"time"

	"github.com/heathj/domevents/loop"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDocument(t *testing.T, opts ...DocumentOption) (*Document, *loop.Loop) {
	t.Helper()
	l := loop.New(loop.WithClock(loop.NewManualClock(time.Unix(0, 0))), loop.WithLogger(quietLogger()))
	base := []DocumentOption{WithScheduler(l), WithLogger(quietLogger())}
	return NewDocument(append(base, opts...)...), l
}

// calls records listener invocations as "name:phase".
type calls []string

func (c *calls) listener(name string, then ...func(ev *Event)) Listener {
	return NewListener(func(ev *Event) {
		*c = append(*c, name+":"+ev.EventPhase().String())
		for _, fn := range then {
			fn(ev)
		}
	})
}

// chain builds html > body > div > span under the document node.
func chain(d *Document) (html, body, div, span *Node) {
	html = d.Root().AppendChild(d.CreateElement("html"))
	body = html.AppendChild(d.CreateElement("body"))
	div = body.AppendChild(d.CreateElement("div"))
	span = div.AppendChild(d.CreateElement("span"))
	return
}
