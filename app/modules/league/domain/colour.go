package leaguedomain

import "strings"

// Colour is a team or pack colour as reported by the game server.
type Colour int

const (
	ColourNone Colour = iota
	ColourRed
	ColourBlue
	ColourGreen
	ColourYellow
	ColourPurple
	ColourPink
	ColourCyan
	ColourOrange
)

// colourCount is the number of Colour values including ColourNone.
const colourCount = int(ColourOrange) + 1

var colourNames = [colourCount]string{"None", "Red", "Blue", "Green", "Yellow", "Purple", "Pink", "Cyan", "Orange"}

var colourAliases = map[string]Colour{
	"red": ColourRed, "blue": ColourBlue, "green": ColourGreen, "yellow": ColourYellow,
	"purple": ColourPurple, "pink": ColourPink, "cyan": ColourCyan, "orange": ColourOrange,
	"blu": ColourBlue, "grn": ColourGreen, "yel": ColourYellow,
}

// RGBA components of the pastel display colours, indexed by Colour.
var colourRGB = [colourCount][3]uint8{
	{0xFF, 0xFF, 0xFF},
	{0xFF, 0xA0, 0xA0},
	{0xA0, 0xD0, 0xFF},
	{0xA0, 0xFF, 0xA0},
	{0xFF, 0xFF, 0x90},
	{0xC0, 0xA0, 0xFF},
	{0xFF, 0xA0, 0xF0},
	{0xA0, 0xFF, 0xFF},
	{0xFF, 0xD0, 0xA0},
}

// ParseColour maps a colour name (or one of the short server aliases) to a Colour.
// Unknown names map to ColourNone.
func ParseColour(s string) Colour {
	if c, ok := colourAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return ColourNone
}

// Valid reports whether c is a known colour.
func (c Colour) Valid() bool {
	return c >= ColourNone && int(c) < colourCount
}

func (c Colour) String() string {
	if !c.Valid() {
		return colourNames[ColourNone]
	}
	return colourNames[c]
}

// RGB returns the display colour for c.
func (c Colour) RGB() (r, g, b uint8) {
	if !c.Valid() {
		c = ColourNone
	}
	rgb := colourRGB[c]
	return rgb[0], rgb[1], rgb[2]
}
