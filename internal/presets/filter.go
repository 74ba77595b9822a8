package presets

import "strings"

// Filter keeps presets whose name or key contains every word of query,
// ignoring case. An empty query keeps everything.
func Filter(ps []Preset, query string) []Preset {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return ps
	}
	var out []Preset
	for _, p := range ps {
		hay := strings.ToLower(p.Name + " " + p.Key)
		ok := true
		for _, w := range words {
			if !strings.Contains(hay, w) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the preset with key.
func Find(ps []Preset, key string) (Preset, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
