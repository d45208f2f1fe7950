package wizard

// BasePriceCents is the lowest strictly positive retail price in the price
// table, or DefaultBasePriceCents when there is none.
func BasePriceCents(s State) int64 {
	var lowest int64
	for _, price := range s.Variants.Prices {
		if price.RetailCents <= 0 {
			continue
		}
		if lowest == 0 || price.RetailCents < lowest {
			lowest = price.RetailCents
		}
	}
	if lowest == 0 {
		return DefaultBasePriceCents
	}
	return lowest
}

// PlannedVariant is one variant record a publish will create.
type PlannedVariant struct {
	VariantID  string
	Name       string
	PriceCents int64
	Inventory  int
}

// Plan describes the records produced by publishing a draft.
type Plan struct {
	BasePriceCents int64
	Variants       []PlannedVariant
}

// PublishPlan computes prices for every variant the draft will publish.
// Selected variants keep their positive override or fall back to the base
// price; an empty selection yields a single standard variant.
func PublishPlan(s State) Plan {
	base := BasePriceCents(s)
	plan := Plan{BasePriceCents: base}
	if len(s.Variants.SelectedIDs) == 0 {
		plan.Variants = []PlannedVariant{{
			Name:       StandardVariantName,
			PriceCents: base,
			Inventory:  UnlimitedInventory,
		}}
		return plan
	}
	plan.Variants = make([]PlannedVariant, 0, len(s.Variants.SelectedIDs))
	for _, id := range s.Variants.SelectedIDs {
		price := base
		if override := s.Variants.Prices[id].RetailCents; override > 0 {
			price = override
		}
		plan.Variants = append(plan.Variants, PlannedVariant{
			VariantID:  id,
			Name:       id,
			PriceCents: price,
			Inventory:  UnlimitedInventory,
		})
	}
	return plan
}
