package catalog

// ColorPreset is a one-click shortcut for a color value. Setters accept any string;
// presets are only offered to the host UI.
type ColorPreset struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var colorPresets = []ColorPreset{
	{Name: "White", Value: "#ffffff"},
	{Name: "Black", Value: "#000000"},
	{Name: "Gray", Value: "#4b5563"},
	{Name: "Light Gray", Value: "#9ca3af"},
	{Name: "Silver", Value: "#d1d5db"},
	{Name: "Yellow", Value: "#fbbf24"},
	{Name: "Teal", Value: "#14b8a6"},
	{Name: "Green", Value: "#22c55e"},
	{Name: "Red", Value: "#ef4444"},
	{Name: "Blue", Value: "#3b82f6"},
}

func ColorPresets() []ColorPreset {
	out := make([]ColorPreset, len(colorPresets))
	copy(out, colorPresets)
	return out
}
