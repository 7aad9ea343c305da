package app

import "fmt"

const (
	PathStats      = "/api/stats"
	PathMiners     = "/api/miners"
	PathBlockchain = "/api/blockchain"
	PathValidate   = "/api/validate"
	PathCPU        = "/api/cpu"

	pathBlocks       = "/api/blocks/%d"
	pathMinerControl = "/api/miner/%s"
)

// MinerAction is one of the POST endpoints under /api/miner/.
type MinerAction string

const (
	MinerPause    MinerAction = "pause"
	MinerResume   MinerAction = "resume"
	MinerDelete   MinerAction = "delete"
	MinerThrottle MinerAction = "throttle"
)

func BlockPath(index int64) string {
	return fmt.Sprintf(pathBlocks, index)
}

func MinerActionPath(action MinerAction) string {
	return fmt.Sprintf(pathMinerControl, action)
}
