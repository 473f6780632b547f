package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stavsoft/boqflow/internal/model"
)

func TestClassifyRole(t *testing.T) {
	qty := 12.5
	price := 2500.0

	tests := []struct {
		name string
		item model.Item
		want model.RowRole
	}{
		{
			name: "section header with short numeric code",
			item: model.Item{Code: "2", Description: "Zakládání"},
			want: model.RoleSection,
		},
		{
			name: "two digit section code",
			item: model.Item{Code: "46", Description: "Zpevněné plochy"},
			want: model.RoleSection,
		},
		{
			name: "catalog code with quantity is main",
			item: model.Item{Code: "231112", Description: "Betonáž základů", Quantity: &qty},
			want: model.RoleMain,
		},
		{
			name: "prefixed catalog code with quantity is main",
			item: model.Item{Code: "R-231.01", Description: "Atypická konstrukce", Quantity: &qty},
			want: model.RoleMain,
		},
		{
			name: "catalog code without quantity is subordinate",
			item: model.Item{Code: "231112", Description: "Betonáž základů"},
			want: model.RoleSubordinate,
		},
		{
			name: "codeless remark is subordinate",
			item: model.Item{Description: "poznámka k výpočtu"},
			want: model.RoleSubordinate,
		},
		{
			name: "short code with price is not a section",
			item: model.Item{Code: "2", Description: "cosi", UnitPrice: &price},
			want: model.RoleSubordinate,
		},
		{
			name: "empty row is unknown",
			item: model.Item{},
			want: model.RoleUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(&tt.item))
		})
	}
}

func TestAssignRolesRespectsLocks(t *testing.T) {
	qty := 1.0
	items := []model.Item{
		{Code: "231112", Description: "Betonáž", Quantity: &qty, Role: model.RoleSubordinate, RoleLocked: true},
		{Code: "231113", Description: "Betonáž", Quantity: &qty},
	}

	AssignRoles(items)

	assert.Equal(t, model.RoleSubordinate, items[0].Role, "locked role must survive")
	assert.Equal(t, model.RoleMain, items[1].Role)
}

func TestAssignRolesKeepsExistingRoles(t *testing.T) {
	items := []model.Item{
		{Description: "poznámka", Role: model.RoleMain},
	}

	AssignRoles(items)

	assert.Equal(t, model.RoleMain, items[0].Role)
}
