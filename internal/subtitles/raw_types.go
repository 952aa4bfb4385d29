package subtitles

// rawDocument représente le document de sous-titres "brut" tel que servi par le CDN
// (subtitle_url). Seul body nous intéresse ; le style (font_size, font_color...) est ignoré.
type rawDocument struct {
	FontSize        float64    `json:"font_size,omitempty"`
	FontColor       string     `json:"font_color,omitempty"`
	BackgroundAlpha float64    `json:"background_alpha,omitempty"`
	BackgroundColor string     `json:"background_color,omitempty"`
	Body            []rawEntry `json:"body"`
}

type rawEntry struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Location int     `json:"location,omitempty"` // position à l'écran, inutile ici
	Content  string  `json:"content"`
}
