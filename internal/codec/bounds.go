package codec

import (
	"errors"
	"fmt"

	"poolctl/internal/model"
)

// ErrInvalidRange marks a tick range whose lower bound exceeds its upper.
var ErrInvalidRange = errors.New("invalid tick range")

// BuildBounds converts signed ticks into the signed-magnitude wire form.
func BuildBounds(lowerTick, upperTick int64) (model.Bounds, error) {
	if lowerTick > upperTick {
		return model.Bounds{}, fmt.Errorf("%w: lower %d > upper %d", ErrInvalidRange, lowerTick, upperTick)
	}
	return model.Bounds{
		Lower: model.TickFromSigned(lowerTick),
		Upper: model.TickFromSigned(upperTick),
	}, nil
}
