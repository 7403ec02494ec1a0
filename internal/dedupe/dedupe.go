// Package dedupe collapses streaming offers into the per-service display groups.
package dedupe

import (
	"strconv"

	"github.com/varoOP/fliq/internal/domain"
)

// Offers keeps one offer per service name. The first offer for a service
// holds its position; a later offer replaces it only when both are priced and
// the later one is strictly cheaper.
func Offers(options []domain.StreamingOption) []domain.StreamingOption {
	out := make([]domain.StreamingOption, 0, len(options))
	index := make(map[string]int, len(options))

	for _, opt := range options {
		i, seen := index[opt.Service]
		if !seen {
			index[opt.Service] = len(out)
			out = append(out, opt)
			continue
		}

		if cheaper(opt, out[i]) {
			out[i] = opt
		}
	}

	return out
}

// Group splits options by kind. Stream holds subscription offers followed by
// free ones; every group is deduplicated on its own.
func Group(options []domain.StreamingOption) domain.OfferGroups {
	var stream, free, addons, rent, buy []domain.StreamingOption

	for _, opt := range options {
		switch opt.Kind {
		case domain.OfferSubscription:
			stream = append(stream, opt)
		case domain.OfferFree:
			free = append(free, opt)
		case domain.OfferAddon:
			addons = append(addons, opt)
		case domain.OfferRent:
			rent = append(rent, opt)
		case domain.OfferBuy:
			buy = append(buy, opt)
		}
	}

	return domain.OfferGroups{
		Stream: Offers(append(stream, free...)),
		Addons: Offers(addons),
		Rent:   Offers(rent),
		Buy:    Offers(buy),
	}
}

func cheaper(candidate, existing domain.StreamingOption) bool {
	if candidate.Price == nil || existing.Price == nil {
		return false
	}

	c, err := strconv.ParseFloat(candidate.Price.Amount, 64)
	if err != nil {
		return false
	}
	e, err := strconv.ParseFloat(existing.Price.Amount, 64)
	if err != nil {
		return false
	}

	return c < e
}
