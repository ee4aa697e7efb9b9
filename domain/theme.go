package domain

// Palette is the set of colors a renderer needs.
type Palette struct {
	Background string
	Text       string
	Primary    string
	Muted      string
	Bubble     string
	OwnBubble  string
}

var (
	LightPalette = Palette{
		Background: "#FFFFFF",
		Text:       "#1A1A1A",
		Primary:    "#2E7D32",
		Muted:      "#757575",
		Bubble:     "#F1F1F1",
		OwnBubble:  "#C8E6C9",
	}
	DarkPalette = Palette{
		Background: "#121212",
		Text:       "#EDEDED",
		Primary:    "#81C784",
		Muted:      "#9E9E9E",
		Bubble:     "#2A2A2A",
		OwnBubble:  "#1B5E20",
	}
)

// Theme is the app-wide presentation preference.
type Theme struct {
	DarkMode bool
	Palette  Palette
}

func NewTheme(dark bool) Theme {
	if dark {
		return Theme{DarkMode: true, Palette: DarkPalette}
	}
	return Theme{DarkMode: false, Palette: LightPalette}
}
