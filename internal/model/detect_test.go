package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Fracture Case", TypeCase},
		{"AK-47 | Redline (Field-Tested)", TypeSkin},
		{"AWP | Asiimov", TypeSkin},
		{"SSG 08 | Blood in the Water", TypeSkin},
		{"Karambit | Doppler", TypeKnife},
		{"Butterfly Knife | Fade", TypeKnife},
		{"M9 Bayonet | Tiger Tooth", TypeKnife},
		{"Sport Gloves | Pandora's Box", TypeGloves},
		{"Sticker | Crown (Foil)", TypeSticker},
		{"Agent | Sir Bloody Miami Darryl", TypeAgent},
		{"Music Kit | AWOLNATION", ""},
		{"", ""},
		// "case" wins over the weapon token.
		{"AK-47 Case Hardened Case", TypeCase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.name))
		})
	}
}
