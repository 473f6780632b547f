package engine

import (
	"regexp"
	"unicode"

	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
)

// Row role heuristics, applied in order with first match winning:
//
//  1. section: numeric code of 1-2 digits, no quantity, no price
//  2. main: a real catalog code (>=3 digits, or a prefixed code format)
//     and a quantity
//  3. subordinate: anything else with a non-empty description
//  4. unknown: degenerate rows
var (
	sectionCodeRe  = regexp.MustCompile(`^\d{1,2}$`)
	prefixedCodeRe = regexp.MustCompile(`^[a-z]{1,4}[-.]?\d{2,}[a-z0-9./-]*$`)
)

// ClassifyRole derives the structural role of one row. Pure function of
// the item's fields; callers decide whether the result may overwrite a
// user-corrected role.
func ClassifyRole(it *model.Item) model.RowRole {
	code := normalize.Code(it.Code)

	if sectionCodeRe.MatchString(code) && !it.HasQuantity() && !it.HasPrice() {
		return model.RoleSection
	}

	if isCatalogCode(code) && it.HasQuantity() {
		return model.RoleMain
	}

	if !it.IsEmpty() && it.Description != "" {
		return model.RoleSubordinate
	}

	return model.RoleUnknown
}

// AssignRoles fills in roles for items that do not have one yet.
// User-corrected roles (RoleLocked) are authoritative and left alone.
func AssignRoles(items []model.Item) {
	for i := range items {
		if items[i].RoleLocked || items[i].Role != "" {
			continue
		}
		items[i].Role = ClassifyRole(&items[i])
	}
}

// isCatalogCode reports whether a normalized code looks like a real
// catalog work-item code rather than a section number or free-form note.
func isCatalogCode(code string) bool {
	if code == "" {
		return false
	}
	if digitCount(code) >= 3 {
		return true
	}
	return prefixedCodeRe.MatchString(code)
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
