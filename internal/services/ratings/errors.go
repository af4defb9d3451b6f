package ratings

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid rating input")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrAggregationFailed = errors.New("rating aggregation failed")
)
