package bins

import (
	"math"
	"sort"

	"bizerp/internal/core/id"
)

type stockKey struct {
	bin  id.ID
	item id.ID
}

type stockAcc struct {
	itemName string
	quantity float64
	history  []HistoryEntry
}

func fold(purchases, sales []Movement) map[stockKey]*stockAcc {
	acc := make(map[stockKey]*stockAcc)
	add := func(m Movement, kind string, sign float64) {
		k := stockKey{bin: m.BinLocationID, item: m.ItemID}
		a, ok := acc[k]
		if !ok {
			a = &stockAcc{}
			acc[k] = a
		}
		if a.itemName == "" {
			a.itemName = m.ItemName
		}
		a.quantity += sign * m.Quantity
		a.history = append(a.history, HistoryEntry{
			Type:            kind,
			ReferenceNumber: m.ReferenceNumber,
			ReferenceDate:   m.ReferenceDate,
			Quantity:        sign * m.Quantity,
			CreatedAt:       m.CreatedAt,
		})
	}
	for _, m := range purchases {
		add(m, MovementPurchase, 1)
	}
	for _, m := range sales {
		add(m, MovementSale, -1)
	}
	for _, a := range acc {
		sort.SliceStable(a.history, func(i, j int) bool {
			return a.history[i].CreatedAt.Before(a.history[j].CreatedAt)
		})
	}
	return acc
}

// Aggregate derives the items held by each bin. Only strictly positive nets
// are reported; bins without any keep an empty item list. Bins are returned
// in input order, items by quantity descending then name.
func Aggregate(binList []BinLocation, purchases, sales []Movement) []BinWithItems {
	acc := fold(purchases, sales)

	byBin := make(map[id.ID][]ItemStock)
	for k, a := range acc {
		if a.quantity <= 0 {
			continue
		}
		byBin[k.bin] = append(byBin[k.bin], ItemStock{
			ItemID:   k.item,
			ItemName: a.itemName,
			Quantity: a.quantity,
			History:  a.history,
		})
	}

	out := make([]BinWithItems, 0, len(binList))
	for _, b := range binList {
		items := byBin[b.ID]
		if items == nil {
			items = []ItemStock{}
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Quantity != items[j].Quantity {
				return items[i].Quantity > items[j].Quantity
			}
			return items[i].ItemName < items[j].ItemName
		})
		out = append(out, BinWithItems{BinLocation: b, Items: items})
	}
	return out
}

// ForItem derives the bins holding itemID, by quantity descending then bin code.
// Movements of other items are ignored.
func ForItem(binList []BinLocation, purchases, sales []Movement, itemID id.ID) []BinStock {
	acc := fold(purchases, sales)

	out := []BinStock{}
	for _, b := range binList {
		a, ok := acc[stockKey{bin: b.ID, item: itemID}]
		if !ok || a.quantity <= 0 {
			continue
		}
		out = append(out, BinStock{
			BinLocationID: b.ID,
			BinCode:       b.BinCode,
			Warehouse:     b.Warehouse,
			Quantity:      a.quantity,
			History:       a.history,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].BinCode < out[j].BinCode
	})
	return out
}

// driftTolerance absorbs float64 noise from summing fractional quantities.
const driftTolerance = 1e-9

// FindDrift keeps the balances whose stored stock differs from the ledger.
func FindDrift(balances []ItemBalance) []ItemBalance {
	out := []ItemBalance{}
	for _, b := range balances {
		if math.Abs(b.Difference()) > driftTolerance {
			out = append(out, b)
		}
	}
	return out
}
