package tray

import "strings"

var keyGlyphs = map[string]string{
	"cmd":     "⌘",
	"command": "⌘",
	"shift":   "⇧",
	"alt":     "⌥",
	"option":  "⌥",
	"ctrl":    "⌃",
	"control": "⌃",
	"esc":     "Esc",
	"escape":  "Esc",
	"space":   "Space",
	"tab":     "Tab",
	"enter":   "↩",
	"return":  "↩",
}

// ChordLabel renders a key chord the way macOS menus do, e.g. ["cmd","."]
// becomes "⌘.". Unknown single keys are uppercased.
func ChordLabel(keys []string) string {
	var b strings.Builder
	for _, key := range keys {
		if glyph, ok := keyGlyphs[key]; ok {
			b.WriteString(glyph)
			continue
		}
		if len(key) == 1 {
			b.WriteString(strings.ToUpper(key))
			continue
		}
		b.WriteString(key)
	}
	return b.String()
}
