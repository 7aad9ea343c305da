package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	valid "github.com/asaskevich/govalidator"
)

var (
	ErrInvalidBlockIndex      = errors.New("not a valid block index")
	ErrInvalidThrottlePercent = errors.New("throttle percent must be an integer between 0 and 100")
	ErrEmptyMinerID           = errors.New("miner ID cannot be empty")
	ErrUnknownMinerAction     = errors.New("unknown miner action")
)

// ParseBlockIndex accepts a non-negative integer as used in /api/blocks/{index}.
func ParseBlockIndex(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if !valid.IsInt(raw) {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidBlockIndex)
	}

	index, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidBlockIndex)
	}

	if index < 0 {
		return 0, fmt.Errorf("%q: negative: %w", raw, ErrInvalidBlockIndex)
	}

	return index, nil
}

func ParseThrottlePercent(raw string) (int32, error) {
	raw = strings.TrimSpace(raw)
	if !valid.IsInt(raw) {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidThrottlePercent)
	}

	percent, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidThrottlePercent)
	}

	if !valid.InRangeInt(percent, 0, 100) {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidThrottlePercent)
	}

	return int32(percent), nil
}

func ValidateMinerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyMinerID
	}

	return nil
}
