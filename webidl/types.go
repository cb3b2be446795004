package webidl

// https://w3c.github.io/hr-time/#dom-domhighrestimestamp
// Milliseconds, with sub-millisecond precision.
type DOMHighResTimeStamp float64

// FromMillis converts a host timestamp in whole milliseconds.
func FromMillis(ms int64) DOMHighResTimeStamp {
	return DOMHighResTimeStamp(ms)
}
