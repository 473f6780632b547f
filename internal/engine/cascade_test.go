package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
)

func run(roles ...model.RowRole) []model.Item {
	items := make([]model.Item, len(roles))
	for i, role := range roles {
		items[i] = model.Item{
			ID:          string(rune('a' + i)),
			Sheet:       "SO 201",
			RowPosition: i + 1,
			Role:        role,
		}
	}
	return items
}

func TestCascadeRun(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		start int
		want  []int
	}{
		{
			name:  "run stops at next main",
			items: run(model.RoleMain, model.RoleSubordinate, model.RoleSubordinate, model.RoleMain, model.RoleSubordinate),
			start: 0,
			want:  []int{1, 2},
		},
		{
			name:  "run stops at section",
			items: run(model.RoleMain, model.RoleSubordinate, model.RoleSection, model.RoleSubordinate),
			start: 0,
			want:  []int{1},
		},
		{
			name:  "unknown rows sit inside a run",
			items: run(model.RoleMain, model.RoleUnknown, model.RoleSubordinate),
			start: 0,
			want:  []int{2},
		},
		{
			name:  "no subordinates",
			items: run(model.RoleMain, model.RoleMain),
			start: 0,
			want:  nil,
		},
		{
			name:  "last item has empty run",
			items: run(model.RoleMain, model.RoleSubordinate),
			start: 1,
			want:  nil,
		},
		{
			name:  "out of range start",
			items: run(model.RoleMain),
			start: 5,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CascadeRun(tt.items, tt.start))
		})
	}
}

func TestCascadeRunNeverCrossesSheets(t *testing.T) {
	items := run(model.RoleMain, model.RoleSubordinate, model.RoleSubordinate)
	items[2].Sheet = "SO 202"

	assert.Equal(t, []int{1}, CascadeRun(items, 0))
}

func TestValidateRowPositions(t *testing.T) {
	items := []model.Item{
		{ID: "a", Sheet: "SO 201", RowPosition: 1},
		{ID: "b", Sheet: "SO 201", RowPosition: 2},
		{ID: "c", Sheet: "SO 202", RowPosition: 1},
	}
	assert.NoError(t, ValidateRowPositions(items))
}

func TestValidateRowPositionsDuplicate(t *testing.T) {
	items := []model.Item{
		{ID: "a", Sheet: "SO 201", RowPosition: 3},
		{ID: "b", Sheet: "SO 201", RowPosition: 3},
	}

	err := ValidateRowPositions(items)
	assert.ErrorIs(t, err, common.ErrDuplicateRow)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}
