package app

import "fmt"

// Miner is the subset of a /api/miners entry the report prints.
type Miner struct {
	ID          string
	IPAddress   string
	Hostname    string
	BlocksMined int64
}

type Block struct {
	Index int64
	Hash  string
}

// minerEntry and blockEntry mirror the wire format. A nil field means the
// key was absent or null.
type minerEntry struct {
	ID          *string `json:"ID"`
	IPAddress   *string `json:"IPAddress"`
	Hostname    *string `json:"Hostname"`
	BlocksMined *int64  `json:"BlocksMined"`
}

func (e minerEntry) miner() (Miner, error) {
	switch {
	case e.ID == nil:
		return Miner{}, missingField(PathMiners, "ID")
	case e.IPAddress == nil:
		return Miner{}, missingField(PathMiners, "IPAddress")
	case e.Hostname == nil:
		return Miner{}, missingField(PathMiners, "Hostname")
	case e.BlocksMined == nil:
		return Miner{}, missingField(PathMiners, "BlocksMined")
	}

	return Miner{
		ID:          *e.ID,
		IPAddress:   *e.IPAddress,
		Hostname:    *e.Hostname,
		BlocksMined: *e.BlocksMined,
	}, nil
}

type blockEntry struct {
	Index *int64  `json:"Index"`
	Hash  *string `json:"Hash"`
}

func (e blockEntry) block() (Block, error) {
	switch {
	case e.Index == nil:
		return Block{}, missingField(PathBlockchain, "Index")
	case e.Hash == nil:
		return Block{}, missingField(PathBlockchain, "Hash")
	}

	return Block{Index: *e.Index, Hash: *e.Hash}, nil
}

func missingField(path, field string) error {
	return fmt.Errorf("%s: %q: %w", path, field, ErrMissingField)
}

type minerControlRequest struct {
	MinerID string `json:"miner_id"`
}

type minerThrottleRequest struct {
	MinerID         string `json:"miner_id"`
	ThrottlePercent int32  `json:"throttle_percent"`
}
