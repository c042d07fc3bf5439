package ports

import (
	"context"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// FactsProvider gathers static host-side network facts (interface MTU and
// speed, DNS resolution of the local hostname, routing table dump).
type FactsProvider interface {
	Facts(ctx context.Context) (*domain.NetworkFacts, error)
}
