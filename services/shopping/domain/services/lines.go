package services

import (
	"fmt"
	"strings"

	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// Request is one requested product line before catalog resolution.
type Request struct {
	ProductID string
	Quantity  int
}

// MergeRequests validates requested lines and folds duplicate product ids
// into one line by summing their quantities. First-occurrence order is kept.
// Each merged quantity must stay within models.MaxQuantity.
func MergeRequests(reqs []Request) ([]Request, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: a list needs at least one item", domain.ErrInvalidInput)
	}

	merged := make([]Request, 0, len(reqs))
	index := make(map[string]int, len(reqs))
	for i, r := range reqs {
		id := strings.TrimSpace(r.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: item %d has no product id", domain.ErrInvalidInput, i)
		}
		if r.Quantity <= 0 || r.Quantity > models.MaxQuantity {
			return nil, fmt.Errorf("%w: quantity for product %s must be between 1 and %d, got %d",
				domain.ErrInvalidInput, id, models.MaxQuantity, r.Quantity)
		}
		if at, ok := index[id]; ok {
			merged[at].Quantity += r.Quantity
			if merged[at].Quantity > models.MaxQuantity {
				return nil, fmt.Errorf("%w: total quantity for product %s exceeds %d",
					domain.ErrInvalidInput, id, models.MaxQuantity)
			}
			continue
		}
		index[id] = len(merged)
		merged = append(merged, Request{ProductID: id, Quantity: r.Quantity})
	}
	return merged, nil
}
