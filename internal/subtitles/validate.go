package subtitles

import (
	"fmt"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// IssueKind qualifie une anomalie de piste.
type IssueKind string

const (
	IssueInvertedRange IssueKind = "inverted_range" // Start > End
	IssueOutOfOrder    IssueKind = "out_of_order"   // Start < Start de l'entrée précédente
	IssueOverlap       IssueKind = "overlap"        // Start < End de l'entrée précédente
)

// Issue décrit une anomalie à l'index Index.
type Issue struct {
	Index int
	Kind  IssueKind
}

func (i Issue) String() string {
	return fmt.Sprintf("entry %d: %s", i.Index, i.Kind)
}

// Validate signale les entrées inversées, désordonnées ou qui se chevauchent.
// Ce ne sont pas des erreurs : la synchronisation les résout par le plus petit index,
// mais l'appelant peut avertir l'utilisateur.
func Validate(tr model.Track) []Issue {
	var issues []Issue
	for i, e := range tr.Entries {
		if e.Start > e.End {
			issues = append(issues, Issue{Index: i, Kind: IssueInvertedRange})
		}
		if i == 0 {
			continue
		}
		prev := tr.Entries[i-1]
		switch {
		case e.Start < prev.Start:
			issues = append(issues, Issue{Index: i, Kind: IssueOutOfOrder})
		case e.Start < prev.End:
			issues = append(issues, Issue{Index: i, Kind: IssueOverlap})
		}
	}
	return issues
}
