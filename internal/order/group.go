package order

import "github.com/shopspring/decimal"

// GroupOrderManager tracks a combo order's legs. Orders reference their
// group by GroupOrderManagerID only — there is no back-pointer from the
// group to its orders, avoiding a reference cycle.
type GroupOrderManager struct {
	GroupID         string
	TotalQuantity   decimal.Decimal
	LegCount        int
	GroupLimitPrice decimal.Decimal
	OrderIDs        []string
	Direction       Direction

	legFilled map[string]bool
}

// NewGroupOrderManager constructs a group with its legs not yet resolved.
func NewGroupOrderManager(groupID string, legCount int, groupLimitPrice decimal.Decimal, dir Direction) *GroupOrderManager {
	return &GroupOrderManager{
		GroupID:         groupID,
		LegCount:        legCount,
		GroupLimitPrice: groupLimitPrice,
		Direction:       dir,
		legFilled:       make(map[string]bool, legCount),
	}
}

// AddLeg registers a leg order id with the group.
func (g *GroupOrderManager) AddLeg(orderID string, qty decimal.Decimal) {
	g.OrderIDs = append(g.OrderIDs, orderID)
	g.TotalQuantity = g.TotalQuantity.Add(qty)
}

// MarkLegFilled records that a leg has reported a fill in the current
// evaluation round.
func (g *GroupOrderManager) MarkLegFilled(orderID string) {
	if g.legFilled == nil {
		g.legFilled = make(map[string]bool, g.LegCount)
	}
	g.legFilled[orderID] = true
}

// IsClosed reports whether every leg in the group has reported a fill,
// i.e. the combo as a whole is done. Legs of a combo share lifecycle: on
// fill or cancel, all legs transition together.
func (g *GroupOrderManager) IsClosed() bool {
	if len(g.OrderIDs) == 0 || len(g.OrderIDs) != g.LegCount {
		return false
	}
	for _, id := range g.OrderIDs {
		if !g.legFilled[id] {
			return false
		}
	}
	return true
}

// Reset clears the per-round leg-filled tracking, e.g. between bars.
func (g *GroupOrderManager) Reset() {
	g.legFilled = make(map[string]bool, g.LegCount)
}
