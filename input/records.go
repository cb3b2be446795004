package input

import (
	"github.com/heathj/domevents/dom"
	"github.com/heathj/domevents/webidl"
)

// PointerRecord is a raw pointer sample from the host platform.
type PointerRecord struct {
	Type        string  `json:"type"`
	TimeStampMs int64   `json:"timestampMs"`
	PointerID   int     `json:"pointerId"`
	Kind        string  `json:"kind"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Buttons     uint16  `json:"buttons,omitempty"`
	Pressure    float64 `json:"pressure,omitempty"`
	PressureMin float64 `json:"pressureMin,omitempty"`
	PressureMax float64 `json:"pressureMax,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
	DistanceMin float64 `json:"distanceMin,omitempty"`
	DistanceMax float64 `json:"distanceMax,omitempty"`
	RadiusMajor float64 `json:"radiusMajor,omitempty"`
	RadiusMinor float64 `json:"radiusMinor,omitempty"`
	RadiusMin   float64 `json:"radiusMin,omitempty"`
	RadiusMax   float64 `json:"radiusMax,omitempty"`
	Orientation float64 `json:"orientation,omitempty"`
	Tilt        float64 `json:"tilt,omitempty"`
}

func (r PointerRecord) Point() Point { return Point{X: r.X, Y: r.Y} }

func (r PointerRecord) TimeStamp() webidl.DOMHighResTimeStamp {
	return webidl.FromMillis(r.TimeStampMs)
}

// NormalizedPressure maps Pressure into [0,1] using the reported range. A
// record without a range is assumed to be normalised already.
func (r PointerRecord) NormalizedPressure() float64 {
	span := r.PressureMax - r.PressureMin
	if span <= 0 {
		return r.Pressure
	}
	p := (r.Pressure - r.PressureMin) / span
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func (r PointerRecord) data(dx, dy float64) dom.PointerData {
	return dom.PointerData{
		PointerID:   r.PointerID,
		PointerType: dom.ParsePointerType(r.Kind),
		X:           r.X,
		Y:           r.Y,
		DX:          dx,
		DY:          dy,
		Buttons:     r.Buttons,
		Pressure:    r.NormalizedPressure(),
		Orientation: r.Orientation,
		Tilt:        r.Tilt,
		RadiusMajor: r.RadiusMajor,
		RadiusMinor: r.RadiusMinor,
	}
}

type GestureRecord struct {
	Type             string  `json:"type"`
	TimeStampMs      int64   `json:"timestampMs"`
	PrimaryPointerID int     `json:"primaryPointerId"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	DX               float64 `json:"dx,omitempty"`
	DY               float64 `json:"dy,omitempty"`
	VelocityX        float64 `json:"velocityX,omitempty"`
	VelocityY        float64 `json:"velocityY,omitempty"`
}

func (r GestureRecord) Point() Point { return Point{X: r.X, Y: r.Y} }

func (r GestureRecord) TimeStamp() webidl.DOMHighResTimeStamp {
	return webidl.FromMillis(r.TimeStampMs)
}

func (r GestureRecord) data() dom.GestureData {
	return dom.GestureData{
		PrimaryPointerID: r.PrimaryPointerID,
		X:                r.X,
		Y:                r.Y,
		DX:               r.DX,
		DY:               r.DY,
		VelocityX:        r.VelocityX,
		VelocityY:        r.VelocityY,
	}
}

type KeyModifiers struct {
	Ctrl  bool `json:"ctrl,omitempty"`
	Shift bool `json:"shift,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

func (m KeyModifiers) mask() dom.Modifiers {
	var mods dom.Modifiers
	if m.Ctrl {
		mods |= dom.ModCtrl
	}
	if m.Shift {
		mods |= dom.ModShift
	}
	if m.Alt {
		mods |= dom.ModAlt
	}
	if m.Meta {
		mods |= dom.ModMeta
	}
	return mods
}

type KeyboardRecord struct {
	Type         string       `json:"type"`
	TimeStampMs  int64        `json:"timestampMs"`
	VirtualKey   int          `json:"virtualKey"`
	CharCode     rune         `json:"charCode,omitempty"`
	Modifiers    KeyModifiers `json:"modifiers"`
	IsAutoRepeat bool         `json:"isAutoRepeat,omitempty"`
}

func (r KeyboardRecord) TimeStamp() webidl.DOMHighResTimeStamp {
	return webidl.FromMillis(r.TimeStampMs)
}

func (r KeyboardRecord) data() dom.KeyboardData {
	return dom.KeyboardData{
		VirtualKey:   r.VirtualKey,
		CharCode:     r.CharCode,
		Modifiers:    r.Modifiers.mask(),
		IsAutoRepeat: r.IsAutoRepeat,
	}
}

type WheelRecord struct {
	Type        string  `json:"type"`
	TimeStampMs int64   `json:"timestampMs"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
}

func (r WheelRecord) Point() Point { return Point{X: r.X, Y: r.Y} }

func (r WheelRecord) TimeStamp() webidl.DOMHighResTimeStamp {
	return webidl.FromMillis(r.TimeStampMs)
}

func (r WheelRecord) data() dom.WheelData {
	return dom.WheelData{X: r.X, Y: r.Y, DeltaX: r.OffsetX, DeltaY: r.OffsetY}
}
