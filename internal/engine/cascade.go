package engine

import (
	"fmt"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
)

// CascadeRun returns the indices of the subordinate run that follows the
// item at startIndex. The walk moves forward in slice order, collects
// subordinate rows, and stops at the first main or section row or at a
// sheet boundary. The boundary row is never included.
//
// Items must be ordered by sheet and row position, the order ClassifyBatch
// works in. The result depends only on roles and positions, so
// re-running the cascade for the same source is idempotent.
func CascadeRun(items []model.Item, startIndex int) []int {
	if startIndex < 0 || startIndex >= len(items) {
		return nil
	}

	source := items[startIndex]
	var affected []int

	for i := startIndex + 1; i < len(items); i++ {
		if items[i].Sheet != source.Sheet {
			break
		}
		switch items[i].Role {
		case model.RoleSubordinate:
			affected = append(affected, i)
		case model.RoleMain, model.RoleSection:
			return affected
		default:
			// Unknown rows sit inside a run without terminating it.
		}
	}

	return affected
}

// ValidateRowPositions rejects batches with duplicate row positions
// within one sheet. Adjacency is undefined on such data, so cascading
// over it would silently assign categories to the wrong rows.
func ValidateRowPositions(items []model.Item) error {
	type key struct {
		sheet string
		pos   int
	}
	seen := make(map[key]string, len(items))

	for i := range items {
		k := key{items[i].Sheet, items[i].RowPosition}
		if other, dup := seen[k]; dup {
			return fmt.Errorf("%w: sheet %q position %d shared by items %s and %s",
				common.ErrDuplicateRow, k.sheet, k.pos, other, items[i].ID)
		}
		seen[k] = items[i].ID
	}

	return nil
}
