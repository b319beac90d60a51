package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
)

func TestResolve_KnownKinds(t *testing.T) {
	tests := []struct {
		kind       model.EntityKind
		collection string
		labelExpr  string
	}{
		{model.EntityDeal, "deals", "title"},
		{model.EntityProperty, "properties", "address"},
		{model.EntityLead, "leads", "name"},
		{model.EntityTask, "tasks", "title"},
		{model.EntityContact, "contacts", "name"},
		{model.EntityNote, "notes", "body"},
		{model.EntityDocument, "documents", "file_name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			h, err := Resolve(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, h.Kind)
			assert.Equal(t, tt.collection, h.Collection)
			assert.Equal(t, tt.labelExpr, h.LabelExpr)
			assert.NotEmpty(t, h.RequiredOnCreate)
		})
	}
}

func TestResolve_UnknownKind(t *testing.T) {
	_, err := Resolve("Invoice")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnknownEntity(err))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(model.EntityDeal))
	assert.False(t, Known("Campaign"))
}

func TestKinds_CoversRoutingTable(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 7)
	for _, k := range kinds {
		assert.True(t, Known(k))
	}
}
