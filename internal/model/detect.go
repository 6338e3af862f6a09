package model

import "strings"

// weaponNames are the weapon tokens whose skins count as plain "Skin" items.
var weaponNames = []string{
	"mp9", "ak-47", "mag-7", "mac-10", "negev", "awp", "m4a4", "m4a1-s",
	"usp-s", "glock", "deagle", "p250", "five-seven", "tec-9", "cz75",
	"p2000", "dual berettas", "mp7", "mp5-sd", "ump-45", "p90", "pp-bizon",
	"galil", "famas", "sg 553", "aug", "ssg 08", "scar-20", "g3sg1", "nova",
	"xm1014", "sawed-off", "m249", "r8 revolver",
}

// DetectType guesses an item's category from its market name. Returns ""
// when nothing matches so callers can fall back to an explicit choice.
func DetectType(name string) string {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "case"):
		return TypeCase
	case containsAny(n, weaponNames):
		return TypeSkin
	case strings.Contains(n, "knife"),
		strings.Contains(n, "karambit"),
		strings.Contains(n, "bayonet"):
		return TypeKnife
	case strings.Contains(n, "gloves"):
		return TypeGloves
	case strings.Contains(n, "sticker"):
		return TypeSticker
	case strings.Contains(n, "agent"):
		return TypeAgent
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
