package planner

import (
	"fmt"

	"github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/hoisttypes"
)

// Plan partitions totalSize bytes into parts of exactly minPartSize bytes plus
// one trailing part carrying the remainder, if any. Part numbers are 1-based
// and contiguous, offsets ascend, and the part lengths sum to totalSize.
//
// A totalSize of zero yields a single zero-length part so that empty sources
// still produce a well-formed upload.
//
// Returns ErrInvalidInput if totalSize is negative, minPartSize is not
// positive, or the partition would exceed the protocol part-count cap.
func Plan(totalSize, minPartSize int64) ([]hoisttypes.PartSpec, error) {
	if totalSize < 0 {
		return nil, errors.NewError("plan", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("total size cannot be negative, got %d", totalSize))
	}
	if minPartSize <= 0 {
		return nil, errors.NewError("plan", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("minimum part size must be positive, got %d", minPartSize))
	}

	if totalSize == 0 {
		return []hoisttypes.PartSpec{{PartNumber: 1, ByteOffset: 0, ByteLength: 0}}, nil
	}

	fullParts := totalSize / minPartSize
	remainder := totalSize % minPartSize

	numParts := fullParts
	if remainder > 0 {
		numParts++
	}
	if numParts > hoisttypes.MaxPartCount {
		return nil, errors.NewError("plan", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("plan requires %d parts, protocol allows at most %d", numParts, hoisttypes.MaxPartCount))
	}

	parts := make([]hoisttypes.PartSpec, 0, numParts)
	var offset int64
	for i := int64(0); i < fullParts; i++ {
		parts = append(parts, hoisttypes.PartSpec{
			PartNumber: int32(i + 1),
			ByteOffset: offset,
			ByteLength: minPartSize,
		})
		offset += minPartSize
	}
	if remainder > 0 {
		parts = append(parts, hoisttypes.PartSpec{
			PartNumber: int32(numParts),
			ByteOffset: offset,
			ByteLength: remainder,
		})
	}

	return parts, nil
}
