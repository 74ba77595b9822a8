package presets

// Preset is one selectable system style. The renderer treats every preset
// the same: any non-empty color list and optional image references.
type Preset struct {
	Name           string   `json:"name"`
	Key            string   `json:"key"`
	GradientColors []string `json:"gradientColors"`
	IconRef        string   `json:"iconRef,omitempty"`
	ArtworkRef     string   `json:"artworkRef,omitempty"`
}

// Custom is always offered last.
var Custom = Preset{
	Name:           "Custom",
	Key:            "custom",
	GradientColors: []string{"#9333ea", "#06b6d4"},
}

// knownNames maps system keys to display names. Unknown keys display upper-cased.
var knownNames = map[string]string{
	"nes":       "Nintendo Entertainment System",
	"snes":      "Super Nintendo",
	"n64":       "Nintendo 64",
	"gb":        "Game Boy",
	"gbc":       "Game Boy Color",
	"gba":       "Game Boy Advance",
	"nds":       "Nintendo DS",
	"genesis":   "Sega Genesis",
	"gamegear":  "Sega Game Gear",
	"psx":       "PlayStation",
	"pcengine":  "PC Engine",
	"atari2600": "Atari 2600",
}
