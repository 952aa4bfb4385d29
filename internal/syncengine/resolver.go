package syncengine

import (
	"math"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Resolve trouve l'entrée courante pour la position t.
//
// Règle principale : première entrée (plus petit index) telle que Start <= t <= End.
// Sinon, l'entrée dont une borne est la plus proche de t, si cette distance est
// strictement inférieure à NearestThreshold (Exact = false). À distance égale, le plus
// petit index l'emporte. Fonction pure : aucune mutation.
func Resolve(t model.Seconds, track model.Track) (Position, bool) {
	none := Position{Index: NoIndex}
	if !t.Valid() || track.IsEmpty() {
		return none, false
	}

	for i, e := range track.Entries {
		if e.Contains(t) {
			return Position{Index: i, Exact: true}, true
		}
	}

	nearest := NoIndex
	minDist := math.Inf(1)
	for i, e := range track.Entries {
		d := math.Min(math.Abs(float64(t-e.Start)), math.Abs(float64(t-e.End)))
		if d < minDist {
			minDist = d
			nearest = i
		}
	}
	if nearest == NoIndex || minDist >= float64(NearestThreshold) {
		return none, false
	}
	return Position{Index: nearest, Exact: false}, true
}
