package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/testutil"
)

func TestStaleKeys_DealAndCollections(t *testing.T) {
	ps := testutil.NewPatchSet().WithDealID("deal-1").Build()
	result := &model.PatchSetApplyResult{
		AppliedOps: 3,
		UpdatedEntities: []model.EntityRef{
			{Entity: model.EntityProperty, ID: "prop-1"},
			{Entity: model.EntityTask, ID: "task-1"},
			{Entity: model.EntityProperty, ID: "prop-2"},
		},
	}

	assert.Equal(t, []string{
		"views:deal:deal-1",
		"views:deals",
		"views:deal:deal-1:timeline",
		"views:properties",
		"views:tasks",
	}, StaleKeys(ps, result))
}

func TestStaleKeys_DealRefDoesNotDuplicateListKey(t *testing.T) {
	ps := testutil.NewPatchSet().WithDealID("deal-1").Build()
	result := &model.PatchSetApplyResult{
		AppliedOps: 1,
		UpdatedEntities: []model.EntityRef{
			{Entity: model.EntityDeal, ID: "deal-1"},
		},
	}

	assert.Equal(t, []string{
		"views:deal:deal-1",
		"views:deals",
		"views:deal:deal-1:timeline",
	}, StaleKeys(ps, result))
}

func TestStaleKeys_NoDealID(t *testing.T) {
	ps := testutil.NewPatchSet().Build()
	result := &model.PatchSetApplyResult{
		AppliedOps: 1,
		UpdatedEntities: []model.EntityRef{
			{Entity: model.EntityNote, ID: "note-1"},
		},
	}

	assert.Equal(t, []string{"views:notes"}, StaleKeys(ps, result))
}

func TestStaleKeys_NothingApplied(t *testing.T) {
	ps := testutil.NewPatchSet().WithDealID("deal-1").Build()

	assert.Nil(t, StaleKeys(ps, &model.PatchSetApplyResult{AppliedOps: 0}))
	assert.Nil(t, StaleKeys(ps, nil))
}

func TestStaleKeys_UnknownEntityRefIsSkipped(t *testing.T) {
	ps := testutil.NewPatchSet().WithDealID("deal-1").Build()
	result := &model.PatchSetApplyResult{
		AppliedOps: 1,
		UpdatedEntities: []model.EntityRef{
			{Entity: "Invoice", ID: "inv-1"},
		},
	}

	assert.Equal(t, []string{
		"views:deal:deal-1",
		"views:deals",
		"views:deal:deal-1:timeline",
	}, StaleKeys(ps, result))
}
