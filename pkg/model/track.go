package model

import "fmt"

// Entry est une entrée de sous-titre : intervalle [Start, End] et texte.
// Invariant attendu : Start <= End. Immuable une fois chargée.
type Entry struct {
	Start Seconds `json:"from"`
	End   Seconds `json:"to"`
	Text  string  `json:"content"`
}

// Contains indique si t est dans [Start, End] (bornes incluses).
func (e Entry) Contains(t Seconds) bool {
	return e.Start <= t && t <= e.End
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s --> %s] %s", e.Start.TimestampSRT(), e.End.TimestampSRT(), e.Text)
}

// Track est la suite ordonnée des entrées d'une vidéo, indexée 0..N-1.
// Les entrées sont fournies triées par Start croissant ; ce n'est pas vérifié ici
// (voir subtitles.Validate).
type Track struct {
	Lang    string  `json:"lang,omitempty"`     // code langue ("zh-CN", "ai-zh"...)
	LangDoc string  `json:"lang_doc,omitempty"` // libellé lisible
	Entries []Entry `json:"entries"`
}

// Len renvoie le nombre d'entrées.
func (t Track) Len() int {
	return len(t.Entries)
}

// IsEmpty vaut true si la piste n'a aucune entrée.
func (t Track) IsEmpty() bool {
	return len(t.Entries) == 0
}

// At renvoie l'entrée i et false si i est hors bornes.
func (t Track) At(i int) (Entry, bool) {
	if i < 0 || i >= len(t.Entries) {
		return Entry{}, false
	}
	return t.Entries[i], true
}

func (t Track) String() string {
	return fmt.Sprintf("Track(lang=%s, entries=%d)", t.Lang, len(t.Entries))
}
