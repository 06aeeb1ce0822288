package leaguedomain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHandicap is returned when handicap text carries a non-numeric payload.
var ErrInvalidHandicap = errors.New("invalid handicap")

// HandicapStyle selects how a handicap value adjusts a score.
type HandicapStyle int

const (
	HandicapPercent HandicapStyle = iota
	HandicapPlus
	HandicapMinus
)

// Symbol returns the marker used for the style in documents: "%", "+" or "-".
func (s HandicapStyle) Symbol() string {
	switch s {
	case HandicapPlus:
		return "+"
	case HandicapMinus:
		return "-"
	default:
		return "%"
	}
}

func (s HandicapStyle) String() string {
	switch s {
	case HandicapPlus:
		return "Plus"
	case HandicapMinus:
		return "Minus"
	default:
		return "Percent"
	}
}

// ParseHandicapStyle accepts either the symbol or the style name. Anything else is Percent.
func ParseHandicapStyle(s string) HandicapStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "plus":
		return HandicapPlus
	case "-", "minus":
		return HandicapMinus
	default:
		return HandicapPercent
	}
}

// Handicap is a scoring adjustment attached to a team or player.
// A nil Value is the identity handicap.
type Handicap struct {
	Value *float64
	Style HandicapStyle
}

// NewHandicap builds a handicap with a value.
func NewHandicap(value float64, style HandicapStyle) Handicap {
	return Handicap{Value: &value, Style: style}
}

// Apply adjusts score by the handicap.
func (h Handicap) Apply(score float64) float64 {
	if h.Value == nil {
		return score
	}
	switch h.Style {
	case HandicapPlus:
		return score + *h.Value
	case HandicapMinus:
		return score - *h.Value
	default:
		return score * *h.Value / 100
	}
}

// WithStyle keeps the stored value but reinterprets it under another style.
func (h Handicap) WithStyle(style HandicapStyle) Handicap {
	h.Style = style
	return h
}

// IsZero reports whether the handicap is 100%, +0 or -0.
func (h Handicap) IsZero() bool {
	if h.Value == nil {
		return false
	}
	if h.Style == HandicapPercent {
		return *h.Value == 100
	}
	return *h.Value == 0
}

// IsSet reports whether the handicap carries a value.
func (h Handicap) IsSet() bool {
	return h.Value != nil
}

// Persistable reports whether the handicap should be written to a document.
func (h Handicap) Persistable() bool {
	return h.IsSet() && !h.IsZero()
}

// String renders "110%", "+50" or "-20". A handicap without a value renders "".
// A negative additive value is written with the opposite sign, so Plus(-5) is "-5".
func (h Handicap) String() string {
	if h.Value == nil {
		return ""
	}
	value, style := *h.Value, h.Style
	if style == HandicapPercent {
		return strconv.FormatFloat(value, 'f', -1, 64) + "%"
	}
	if value < 0 {
		value = -value
		if style == HandicapPlus {
			style = HandicapMinus
		} else {
			style = HandicapPlus
		}
	}
	return style.Symbol() + strconv.FormatFloat(value, 'f', -1, 64)
}

// ParseHandicap parses strings like "110%", "+1000", "-1000" and "110".
// A bare number is a percentage. Empty input yields the identity handicap.
func ParseHandicap(s string) (Handicap, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Handicap{}, nil
	}

	style := HandicapPercent
	payload := s
	switch {
	case strings.HasSuffix(s, "%"):
		payload = strings.TrimSuffix(s, "%")
	case s[0] == '+':
		style = HandicapPlus
		payload = s[1:]
	case s[0] == '-':
		style = HandicapMinus
		payload = s[1:]
	}

	payload = strings.TrimSpace(payload)
	// Only a percentage may carry its own sign.
	if payload == "" || (style != HandicapPercent && (payload[0] == '+' || payload[0] == '-')) {
		return Handicap{}, fmt.Errorf("%w: %q", ErrInvalidHandicap, s)
	}
	v, err := strconv.ParseFloat(payload, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Handicap{}, fmt.Errorf("%w: %q", ErrInvalidHandicap, s)
	}

	return NewHandicap(v, style), nil
}
