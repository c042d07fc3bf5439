package ports

import "errors"

// ErrModelRateLimited tells the anomaly detector to fall back to its
// degraded heuristic for this pass.
var ErrModelRateLimited = errors.New("outlier model rate limited")

// OutlierModel scores a numeric matrix and marks outlier rows. Rows are
// feature vectors already scaled by the caller; implementations must be
// deterministic for a fixed seed so repeated runs agree.
type OutlierModel interface {
	FitPredict(rows [][]float64) ([]bool, error)
}
