package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color represents a mana color, or colorless for {C}.
type Color string

const (
	ColorWhite     Color = "W"
	ColorBlue      Color = "U"
	ColorBlack     Color = "B"
	ColorRed       Color = "R"
	ColorGreen     Color = "G"
	ColorColorless Color = "C"
)

// colorOrder is the canonical print/payment order.
var colorOrder = []Color{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

// Side is one half of a hybrid symbol: either a color or a generic amount.
type Side struct {
	Color   Color
	Generic int
}

// Value returns the mana value contribution of this side.
func (s Side) Value() int {
	if s.Generic > 0 {
		return s.Generic
	}
	return 1
}

func (s Side) String() string {
	if s.Generic > 0 {
		return strconv.Itoa(s.Generic)
	}
	return string(s.Color)
}

// Hybrid represents a hybrid mana symbol (e.g., {W/U}, {2/B}). Either side
// can pay for it.
type Hybrid struct {
	Left  Side
	Right Side
}

// Value returns the mana value of a hybrid symbol: the larger side.
func (h Hybrid) Value() int {
	if l, r := h.Left.Value(), h.Right.Value(); l > r {
		return l
	}
	return h.Right.Value()
}

func (h Hybrid) String() string {
	return "{" + h.Left.String() + "/" + h.Right.String() + "}"
}

// Cost is a parsed, normalized mana cost.
type Cost struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	Generic   int
	Snow      int
	X         int // number of X symbols in the cost
	Hybrid    []Hybrid
	Phyrexian []Color
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Parse parses a mana cost string (e.g., "{1}{G}", "{2}{R}{R}", "{X}{R}",
// "{W/U}", "{2/B}", "{G/P}", "{S}").
func Parse(costStr string) (*Cost, error) {
	cost := &Cost{}
	if strings.TrimSpace(costStr) == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no mana symbols in %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))

		switch symbol {
		case "X":
			cost.X++
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		case "C":
			cost.Colorless++
		case "S":
			cost.Snow++
		default:
			if num, err := strconv.Atoi(symbol); err == nil {
				cost.Generic += num
				continue
			}
			if strings.Contains(symbol, "/") {
				if err := cost.parseSlashSymbol(symbol); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
		}
	}

	return cost, nil
}

// parseSlashSymbol handles hybrid ({W/U}, {2/B}) and phyrexian ({G/P})
// symbols.
func (c *Cost) parseSlashSymbol(symbol string) error {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return fmt.Errorf("malformed mana symbol: {%s}", symbol)
	}

	if parts[1] == "P" {
		color, ok := parseColor(parts[0])
		if !ok {
			return fmt.Errorf("malformed phyrexian symbol: {%s}", symbol)
		}
		c.Phyrexian = append(c.Phyrexian, color)
		return nil
	}

	left, ok := parseSide(parts[0])
	if !ok {
		return fmt.Errorf("malformed hybrid symbol: {%s}", symbol)
	}
	right, ok := parseSide(parts[1])
	if !ok {
		return fmt.Errorf("malformed hybrid symbol: {%s}", symbol)
	}
	c.Hybrid = append(c.Hybrid, Hybrid{Left: left, Right: right})
	return nil
}

func parseColor(s string) (Color, bool) {
	switch s {
	case "W", "U", "B", "R", "G", "C":
		return Color(s), true
	}
	return "", false
}

func parseSide(s string) (Side, bool) {
	if color, ok := parseColor(s); ok {
		return Side{Color: color}, true
	}
	if num, err := strconv.Atoi(s); err == nil && num > 0 {
		return Side{Generic: num}, true
	}
	return Side{}, false
}

// ManaValue returns the converted cost: every component except X.
func (c *Cost) ManaValue() int {
	value := c.White + c.Blue + c.Black + c.Red + c.Green +
		c.Colorless + c.Generic + c.Snow + len(c.Phyrexian)
	for _, h := range c.Hybrid {
		value += h.Value()
	}
	return value
}

// ColoredCount returns the count of strict colored symbols for the given
// color (hybrid and phyrexian symbols excluded).
func (c *Cost) ColoredCount(color Color) int {
	switch color {
	case ColorWhite:
		return c.White
	case ColorBlue:
		return c.Blue
	case ColorBlack:
		return c.Black
	case ColorRed:
		return c.Red
	case ColorGreen:
		return c.Green
	case ColorColorless:
		return c.Colorless
	}
	return 0
}

// String returns the canonical string form. Parse(c.String()) produces an
// equivalent cost for any cost produced by Parse.
func (c *Cost) String() string {
	var b strings.Builder

	for i := 0; i < c.X; i++ {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for i := 0; i < c.Snow; i++ {
		b.WriteString("{S}")
	}
	for _, color := range colorOrder {
		for i := 0; i < c.ColoredCount(color); i++ {
			fmt.Fprintf(&b, "{%s}", color)
		}
	}
	for i := 0; i < c.Colorless; i++ {
		b.WriteString("{C}")
	}
	for _, h := range c.Hybrid {
		b.WriteString(h.String())
	}
	for _, color := range c.Phyrexian {
		fmt.Fprintf(&b, "{%s/P}", color)
	}
	return b.String()
}

// Colors returns the colors appearing in the cost, in canonical order.
// Hybrid and phyrexian symbols contribute their colored sides.
func (c *Cost) Colors() []string {
	present := make(map[Color]bool)
	for _, color := range colorOrder {
		if c.ColoredCount(color) > 0 {
			present[color] = true
		}
	}
	for _, h := range c.Hybrid {
		for _, side := range []Side{h.Left, h.Right} {
			if side.Color != "" && side.Color != ColorColorless {
				present[side.Color] = true
			}
		}
	}
	for _, color := range c.Phyrexian {
		present[color] = true
	}
	var out []string
	for _, color := range colorOrder {
		if present[color] {
			out = append(out, string(color))
		}
	}
	return out
}

// Reduce returns a copy with generic cost reduced by the given amount,
// floored at zero. Colored components are never reduced by generic
// reductions.
func (c *Cost) Reduce(generic int) *Cost {
	reduced := *c
	reduced.Hybrid = append([]Hybrid(nil), c.Hybrid...)
	reduced.Phyrexian = append([]Color(nil), c.Phyrexian...)
	reduced.Generic -= generic
	if reduced.Generic < 0 {
		reduced.Generic = 0
	}
	return &reduced
}
