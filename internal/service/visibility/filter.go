// Package visibility implements the suspension filter: given fetched
// records, a requester role and a filter mode, it decides what the caller
// may see. Pure functions; nothing here touches the store.
package visibility

import (
	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/pkg/errors"
)

// Mode narrows a result set by the suspended flag.
type Mode string

const (
	ModeSuspended   Mode = "suspended"
	ModeUnsuspended Mode = "unsuspended"
	ModeAll         Mode = "all"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSuspended, ModeUnsuspended, ModeAll:
		return Mode(s), nil
	case "":
		return ModeUnsuspended, nil
	default:
		return "", errors.Validation("mode", "must be suspended, unsuspended or all").WithOp("visibility-filter")
	}
}

// FilterList narrows a fetched list to what the requester may see. Only a
// superadmin may see suspended records; everyone else is silently narrowed
// to unsuspended ones, and asking for the suspended set outright is denied.
func FilterList(docs []model.Document, requester model.Role, mode Mode) ([]model.Document, error) {
	if requester != model.RoleSuperAdmin {
		if mode == ModeSuspended {
			return nil, errors.Unauthorized("suspended records are restricted").WithOp("visibility-filter")
		}
		mode = ModeUnsuspended
	}

	if mode == ModeAll {
		return docs, nil
	}
	wantSuspended := mode == ModeSuspended
	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if model.DocBool(doc, "suspended") == wantSuspended {
			out = append(out, doc)
		}
	}
	return out, nil
}

// FilterOne applies the single-record rule: a suspended record requested by
// a non-superadmin is a hard Unauthorized, not an empty result. This
// asymmetry with list filtering is deliberate.
func FilterOne(doc model.Document, requester model.Role, mode Mode) (model.Document, error) {
	if requester != model.RoleSuperAdmin {
		if mode == ModeSuspended {
			return nil, errors.Unauthorized("suspended records are restricted").WithOp("visibility-filter")
		}
		if model.DocBool(doc, "suspended") {
			return nil, errors.Unauthorized("record is suspended").WithOp("visibility-filter")
		}
	}
	return doc, nil
}
