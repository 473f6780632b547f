// Package model defines the core domain models used throughout the application.
package model

import "strings"

// RowRole describes the structural role of a BOQ row within its sheet.
type RowRole string

const (
	// RoleMain is a priced, coded work item row.
	RoleMain RowRole = "main"
	// RoleSubordinate is a note, sub-calculation or continuation line.
	RoleSubordinate RowRole = "subordinate"
	// RoleSection is a heading row delimiting groups of main rows.
	RoleSection RowRole = "section"
	// RoleUnknown is a degenerate row with no code and no description.
	RoleUnknown RowRole = "unknown"
)

// CategorySource indicates how an item received its category.
type CategorySource string

const (
	// SourceRules indicates the category came from keyword rule scoring.
	SourceRules CategorySource = "RULES"
	// SourceOverride indicates the category came from a recorded override.
	SourceOverride CategorySource = "OVERRIDE"
	// SourceFallback indicates the category came from the AI fallback.
	SourceFallback CategorySource = "AI_FALLBACK"
	// SourceCascade indicates the category was inherited from a main row.
	SourceCascade CategorySource = "CASCADE"
	// SourceManual indicates the user set the category directly.
	SourceManual CategorySource = "MANUAL"
)

// Item represents a single BOQ line item. The engine mutates only
// Category, CategorySource, Confidence and, on first run, Role; all other
// fields belong to the import layer.
type Item struct {
	ID              string
	Project         string
	Sheet           string
	Code            string
	Description     string
	FullDescription string
	Unit            string
	Quantity        *float64
	UnitPrice       *float64
	TotalPrice      *float64
	RowPosition     int
	Role            RowRole
	RoleLocked      bool // user-corrected role, never recomputed
	Category        string
	CategorySource  CategorySource
	Confidence      float64
}

// SearchText joins the text fields used for keyword matching.
func (it *Item) SearchText() string {
	if it.FullDescription == "" {
		return it.Description
	}
	if it.Description == "" {
		return it.FullDescription
	}
	return it.Description + " " + it.FullDescription
}

// HasQuantity reports whether the row carries a quantity.
func (it *Item) HasQuantity() bool {
	return it.Quantity != nil
}

// HasPrice reports whether the row carries a unit or total price.
func (it *Item) HasPrice() bool {
	return it.UnitPrice != nil || it.TotalPrice != nil
}

// IsEmpty reports whether the row has neither code nor description.
func (it *Item) IsEmpty() bool {
	return strings.TrimSpace(it.Code) == "" && strings.TrimSpace(it.Description) == ""
}
