package model

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// Order is the ordering policy applied to workspaces, groups and tabs.
// Export formats do not promise element order, so the builder imposes one.
type Order string

const (
	// OrderName sorts by Unicode case-folded name. Ties keep encounter
	// order and unnamed groups go last. Tabs sort by display title.
	OrderName Order = "name"
	// OrderInput keeps the order in which elements were decoded.
	OrderInput Order = "input"
)

// DefaultOrder is used when no policy is given.
const DefaultOrder = OrderName

// ValidOrders lists the accepted policy names.
var ValidOrders = []string{string(OrderName), string(OrderInput)}

// ParseOrder maps a policy name to an Order. Empty means DefaultOrder.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultOrder, nil
	case OrderName:
		return OrderName, nil
	case OrderInput:
		return OrderInput, nil
	}
	return "", wmerrors.ConfigValidationError("order", "unknown order "+s, ValidOrders)
}

// apply orders the whole tree in place.
func (o Order) apply(m *Model) {
	if o != OrderName {
		return
	}
	sortByName(m.Workspaces, func(ws *Workspace) string { return ws.Name })
	for _, ws := range m.Workspaces {
		sortByName(ws.Groups, func(g *Group) string { return g.Name })
		for _, g := range ws.Groups {
			sortByName(g.Tabs, func(t *Tab) string { return t.DisplayTitle() })
		}
	}
}

// sortByName stable-sorts items by trimmed, case-folded name. Blank names
// sort last.
func sortByName[T any](items []T, name func(T) string) {
	if len(items) < 2 {
		return
	}

	type keyed struct {
		key  string
		item T
	}
	fold := cases.Fold()
	ks := make([]keyed, len(items))
	for i, it := range items {
		ks[i] = keyed{key: fold.String(strings.TrimSpace(name(it))), item: it}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.key == b.key:
			return 0
		case a.key == "":
			return 1
		case b.key == "":
			return -1
		}
		return strings.Compare(a.key, b.key)
	})

	for i, k := range ks {
		items[i] = k.item
	}
}
