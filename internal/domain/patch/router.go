package patch

import (
	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
)

// Handler describes how one entity kind maps onto its backing collection.
// The set of handlers is closed; every kind declares its collection and the
// fields a create payload must carry.
type Handler struct {
	// Kind is the entity tag this handler serves.
	Kind model.EntityKind
	// Collection is the backing store collection identifier.
	Collection string
	// RequiredOnCreate lists payload fields a create operation must include.
	RequiredOnCreate []string
	// LabelExpr is a JMESPath expression evaluated against an operation's
	// 'after' payload to produce a human-readable label for audit records.
	LabelExpr string
}

// handlers is the fixed entity routing table. An entity tag absent from this
// table fails its single operation with an unknown-entity error; it never
// aborts the batch.
var handlers = map[model.EntityKind]Handler{
	model.EntityDeal: {
		Kind:             model.EntityDeal,
		Collection:       "deals",
		RequiredOnCreate: []string{"title", "stage"},
		LabelExpr:        "title",
	},
	model.EntityProperty: {
		Kind:             model.EntityProperty,
		Collection:       "properties",
		RequiredOnCreate: []string{"address"},
		LabelExpr:        "address",
	},
	model.EntityLead: {
		Kind:             model.EntityLead,
		Collection:       "leads",
		RequiredOnCreate: []string{"name"},
		LabelExpr:        "name",
	},
	model.EntityTask: {
		Kind:             model.EntityTask,
		Collection:       "tasks",
		RequiredOnCreate: []string{"title"},
		LabelExpr:        "title",
	},
	model.EntityContact: {
		Kind:             model.EntityContact,
		Collection:       "contacts",
		RequiredOnCreate: []string{"name"},
		LabelExpr:        "name",
	},
	model.EntityNote: {
		Kind:             model.EntityNote,
		Collection:       "notes",
		RequiredOnCreate: []string{"body"},
		LabelExpr:        "body",
	},
	model.EntityDocument: {
		Kind:             model.EntityDocument,
		Collection:       "documents",
		RequiredOnCreate: []string{"file_name"},
		LabelExpr:        "file_name",
	},
}

// Resolve returns the handler for an entity kind, or an unknown-entity error
// when the kind has no mapping.
func Resolve(kind model.EntityKind) (Handler, error) {
	h, ok := handlers[kind]
	if !ok {
		return Handler{}, apperrors.UnknownEntityf("no backing collection for entity kind %q", string(kind))
	}
	return h, nil
}

// Known reports whether an entity kind has a routing entry.
func Known(kind model.EntityKind) bool {
	_, ok := handlers[kind]
	return ok
}

// Kinds returns every routable entity kind. Order is unspecified.
func Kinds() []model.EntityKind {
	out := make([]model.EntityKind, 0, len(handlers))
	for k := range handlers {
		out = append(out, k)
	}
	return out
}
