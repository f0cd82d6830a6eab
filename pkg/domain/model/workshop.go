package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// MinuteItem is a single agenda entry in a workshop's minutes: a risk, the
// treatments discussed, and the meeting outcome fields.
type MinuteItem struct {
	RiskID             types.RiskID
	SelectedTreatments []int64
	ActionsTaken       string
	ToDo               string
	Outcome            string
}

// Validate checks the minute item for structural validity
func (m *MinuteItem) Validate() error {
	if err := m.RiskID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk reference in minute item")
	}
	return nil
}

// Workshop represents a scheduled risk review session. Minutes are kept in
// three categorized lists; an item is filed under exactly one category when
// added, though the same risk may appear in several categories across
// separate additions.
type Workshop struct {
	ID          int64
	ScheduledAt *time.Time
	Facilitator string
	Status      types.WorkshopStatus

	Extensions []MinuteItem
	Closure    []MinuteItem
	NewRisks   []MinuteItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the workshop for structural validity
func (w *Workshop) Validate() error {
	if !w.Status.Normalize().IsValid() {
		return goerr.New("invalid workshop status", goerr.V("status", w.Status))
	}
	for _, list := range [][]MinuteItem{w.Extensions, w.Closure, w.NewRisks} {
		for i := range list {
			if err := list[i].Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddMinuteItem appends the item to the list for the given category.
// Merging is strictly additive: existing items are never overwritten in
// place, and removal happens only through RemoveMinuteItem.
func (w *Workshop) AddMinuteItem(category types.MinuteCategory, item MinuteItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	switch category {
	case types.MinuteExtensions:
		w.Extensions = append(w.Extensions, item)
	case types.MinuteClosure:
		w.Closure = append(w.Closure, item)
	case types.MinuteNewRisks:
		w.NewRisks = append(w.NewRisks, item)
	default:
		return goerr.New("invalid minute category", goerr.V("category", category))
	}
	return nil
}

// RemoveMinuteItem removes the item at index from the list for the category.
func (w *Workshop) RemoveMinuteItem(category types.MinuteCategory, index int) error {
	var list *[]MinuteItem
	switch category {
	case types.MinuteExtensions:
		list = &w.Extensions
	case types.MinuteClosure:
		list = &w.Closure
	case types.MinuteNewRisks:
		list = &w.NewRisks
	default:
		return goerr.New("invalid minute category", goerr.V("category", category))
	}
	if index < 0 || index >= len(*list) {
		return goerr.New("minute item index out of range",
			goerr.V("category", category), goerr.V("index", index))
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

// MinuteItems returns the list for the given category
func (w *Workshop) MinuteItems(category types.MinuteCategory) []MinuteItem {
	switch category {
	case types.MinuteExtensions:
		return w.Extensions
	case types.MinuteClosure:
		return w.Closure
	case types.MinuteNewRisks:
		return w.NewRisks
	default:
		return nil
	}
}
