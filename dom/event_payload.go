package dom

import "strings"

// Kind tags the payload an Event carries.
type Kind uint8

const (
	GenericKind Kind = iota
	PointerKind
	GestureKind
	KeyboardKind
	WheelKind
	CustomKind
)

func (k Kind) String() string {
	switch k {
	case PointerKind:
		return "pointer"
	case GestureKind:
		return "gesture"
	case KeyboardKind:
		return "keyboard"
	case WheelKind:
		return "wheel"
	case CustomKind:
		return "custom"
	default:
		return "generic"
	}
}

// Payload is the closed set of type-specific event data.
type Payload interface {
	payloadKind() Kind
}

type PointerType uint8

const (
	MousePointer PointerType = iota
	TouchPointer
	StylusPointer
)

func (t PointerType) String() string {
	switch t {
	case TouchPointer:
		return "touch"
	case StylusPointer:
		return "stylus"
	default:
		return "mouse"
	}
}

// ParsePointerType maps host names to a PointerType, defaulting to mouse.
func ParsePointerType(s string) PointerType {
	switch strings.ToLower(s) {
	case "touch":
		return TouchPointer
	case "stylus", "pen":
		return StylusPointer
	default:
		return MousePointer
	}
}

type PointerData struct {
	PointerID   int
	PointerType PointerType
	X, Y        float64
	DX, DY      float64
	Buttons     uint16
	Pressure    float64
	Orientation float64
	Tilt        float64
	RadiusMajor float64
	RadiusMinor float64
}

type GestureData struct {
	PrimaryPointerID int
	X, Y             float64
	DX, DY           float64
	VelocityX        float64
	VelocityY        float64
}

type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
	ModMeta
)

func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}

type KeyboardData struct {
	VirtualKey   int
	CharCode     rune
	Modifiers    Modifiers
	IsAutoRepeat bool
}

type WheelData struct {
	X, Y           float64
	DeltaX, DeltaY float64
}

type CustomData struct {
	Detail interface{}
}

func (PointerData) payloadKind() Kind  { return PointerKind }
func (GestureData) payloadKind() Kind  { return GestureKind }
func (KeyboardData) payloadKind() Kind { return KeyboardKind }
func (WheelData) payloadKind() Kind    { return WheelKind }
func (CustomData) payloadKind() Kind   { return CustomKind }

func (e *Event) Payload() Payload { return e.payload }

func (e *Event) Kind() Kind {
	if e.payload == nil {
		return GenericKind
	}
	return e.payload.payloadKind()
}

func (e *Event) Pointer() (PointerData, bool) {
	p, ok := e.payload.(PointerData)
	return p, ok
}

func (e *Event) Gesture() (GestureData, bool) {
	g, ok := e.payload.(GestureData)
	return g, ok
}

func (e *Event) Keyboard() (KeyboardData, bool) {
	k, ok := e.payload.(KeyboardData)
	return k, ok
}

func (e *Event) Wheel() (WheelData, bool) {
	w, ok := e.payload.(WheelData)
	return w, ok
}

// Detail returns the CustomEvent detail, or nil for other kinds.
func (e *Event) Detail() interface{} {
	if c, ok := e.payload.(CustomData); ok {
		return c.Detail
	}
	return nil
}
