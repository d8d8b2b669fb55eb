package balance

import "github.com/farxc/sigecon/internal/store"

const (
	DisplayReinforce = "entry-reinforce"
	DisplayAnnul     = "entry-annul"
)

// DisplayKind maps a stored entry kind to the name clients see. Unknown kinds
// are returned as they are.
func DisplayKind(kind string) string {
	switch kind {
	case store.EntryReinforce:
		return DisplayReinforce
	case store.EntryAnnul:
		return DisplayAnnul
	default:
		return kind
	}
}

// StoredKind is the inverse of DisplayKind.
func StoredKind(kind string) string {
	switch kind {
	case DisplayReinforce:
		return store.EntryReinforce
	case DisplayAnnul:
		return store.EntryAnnul
	default:
		return kind
	}
}
