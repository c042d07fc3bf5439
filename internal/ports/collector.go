package ports

import (
	"context"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// Collector delivers decoded packets until the context is cancelled or its
// own bound (duration, packet ceiling) is reached. Implementations close the
// out channel when delivery ends and must release the capture handle on every
// exit path.
type Collector interface {
	Start(ctx context.Context, out chan<- *domain.Packet) error
	Stop() error
}
