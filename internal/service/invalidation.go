package service

import (
	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/domain/patch"
)

// View cache key prefixes shared with the mobile client's query layer.
const (
	viewKeyDealPrefix = "views:deal:"
	viewKeyDealsList  = "views:deals"
	viewKeyListPrefix = "views:"
)

// StaleKeys computes the view-cache keys made stale by one apply attempt:
// the deal the PatchSet names, any deal list, the deal's timeline, and one
// list key per distinct entity collection present in UpdatedEntities.
//
// Key order is deterministic: deal keys first, then collection keys in
// first-touch order. The pipeline only emits this set; it never owns the cache.
func StaleKeys(ps *model.PatchSet, result *model.PatchSetApplyResult) []string {
	if result == nil || result.AppliedOps == 0 {
		return nil
	}

	var keys []string
	if ps.DealID != nil {
		keys = append(keys,
			viewKeyDealPrefix+*ps.DealID,
			viewKeyDealsList,
			viewKeyDealPrefix+*ps.DealID+":timeline",
		)
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		seen[key] = struct{}{}
	}
	for _, ref := range result.UpdatedEntities {
		handler, err := patch.Resolve(ref.Entity)
		if err != nil {
			continue
		}
		key := viewKeyListPrefix + handler.Collection
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}
