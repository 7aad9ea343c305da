package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	jd "github.com/josephburnett/jd/lib"
)

const (
	DefaultBlockLimit = 3
	hashPreviewLength = 16
)

// Step is one titled request in the probe sequence.
type Step struct {
	Title string
	Run   func(context.Context) (string, error)
}

func (a *App) Steps() []Step {
	return []Step{
		{Title: "1. Pool Statistics", Run: a.Stats},
		{Title: "2. Miners List", Run: a.Miners},
		{
			Title: fmt.Sprintf("3. Blockchain (first %d blocks)", DefaultBlockLimit),
			Run: func(ctx context.Context) (string, error) {
				return a.Blockchain(ctx, DefaultBlockLimit)
			},
		},
		{Title: "4. Validate Blockchain", Run: a.Validate},
		{Title: "5. Block 0 (Genesis)", Run: a.Genesis},
		{Title: "6. Test Unauthorized Access (should fail)", Run: a.Unauthorized},
	}
}

func (a *App) Stats(ctx context.Context) (string, error) {
	return a.getPretty(ctx, PathStats)
}

func (a *App) Miners(ctx context.Context) (string, error) {
	res, err := a.call(ctx, http.MethodGet, PathMiners, a.authHeaders(), nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	var entries []minerEntry
	if err := decodeJSON(res.Body, PathMiners, &entries); err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf("Total miners: %d", len(entries))}
	for _, entry := range entries {
		m, err := entry.miner()
		if err != nil {
			return "", err
		}

		lines = append(lines, fmt.Sprintf(
			"  - %s: %s (%s) - %d blocks",
			m.ID,
			m.IPAddress,
			m.Hostname,
			m.BlocksMined,
		))
	}

	return strings.Join(lines, "\n"), nil
}

// Blockchain prints the chain length and at most limit leading blocks.
// The first listed block is remembered for the genesis cross-check.
func (a *App) Blockchain(ctx context.Context, limit int) (string, error) {
	res, err := a.call(ctx, http.MethodGet, PathBlockchain, a.authHeaders(), nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	var blocks []json.RawMessage
	if err := decodeJSON(res.Body, PathBlockchain, &blocks); err != nil {
		return "", err
	}

	if len(blocks) > 0 {
		a.genesis = blocks[0]
	}

	lines := []string{fmt.Sprintf("Total blocks: %d", len(blocks))}
	for i, raw := range blocks {
		if i >= limit {
			break
		}

		var entry blockEntry
		if err := decodeJSON(raw, PathBlockchain, &entry); err != nil {
			return "", err
		}

		block, err := entry.block()
		if err != nil {
			return "", err
		}

		lines = append(lines, fmt.Sprintf(
			"  Block %d: Hash=%s...",
			block.Index,
			truncate(block.Hash, hashPreviewLength),
		))
	}

	return strings.Join(lines, "\n"), nil
}

func (a *App) Validate(ctx context.Context) (string, error) {
	res, err := a.call(ctx, http.MethodGet, PathValidate, a.authHeaders(), nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	var fields map[string]json.RawMessage
	if err := decodeJSON(res.Body, PathValidate, &fields); err != nil {
		return "", err
	}

	raw, ok := fields["valid"]
	if !ok {
		return "", missingField(PathValidate, "valid")
	}

	// an explicit null is reported, not treated as missing
	var valid *bool
	if err := decodeJSON(raw, PathValidate, &valid); err != nil {
		return "", err
	}
	if valid == nil {
		return "Blockchain valid: null", nil
	}

	return fmt.Sprintf("Blockchain valid: %t", *valid), nil
}

func (a *App) Block(ctx context.Context, index int64) (string, error) {
	return a.getPretty(ctx, BlockPath(index))
}

// Genesis fetches block 0 and, when enabled, compares it with the first
// block of the earlier chain listing.
func (a *App) Genesis(ctx context.Context) (string, error) {
	res, err := a.call(ctx, http.MethodGet, BlockPath(0), a.authHeaders(), nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	out, err := PrettyJSON(res.Body)
	if err != nil {
		return "", err
	}

	if !a.CheckGenesis || a.genesis == nil {
		return out, nil
	}

	verdict, err := a.compareGenesis(res.Body)
	if err != nil {
		return "", err
	}

	return out + "\n" + verdict, nil
}

func (a *App) compareGenesis(fetched []byte) (string, error) {
	listed, err := jd.ReadJsonString(string(a.genesis))
	if err != nil {
		return "", fmt.Errorf("genesis from chain listing: %w", err)
	}

	block, err := jd.ReadJsonString(string(fetched))
	if err != nil {
		return "", fmt.Errorf("genesis from %s: %w", BlockPath(0), err)
	}

	diff := listed.Diff(block).Render()
	if diff == "" {
		return "Genesis matches chain listing", nil
	}

	return "Genesis differs from chain listing:\n" + strings.TrimRight(diff, "\n"), nil
}

// Unauthorized repeats the stats call with a bogus token and reports
// whatever the server answers.
func (a *App) Unauthorized(ctx context.Context) (string, error) {
	res, err := a.call(ctx, http.MethodGet, PathStats, BearerOnly(InvalidToken), nil)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Status: %d\nResponse: %s", res.StatusCode, string(res.Body)), nil
}

func (a *App) CPUStats(ctx context.Context) (string, error) {
	return a.getPretty(ctx, PathCPU)
}

// ControlMiner pauses, resumes or deletes a miner.
func (a *App) ControlMiner(ctx context.Context, action MinerAction, minerID string) (string, error) {
	if err := ValidateMinerID(minerID); err != nil {
		return "", err
	}

	switch action {
	case MinerPause, MinerResume, MinerDelete:
	default:
		return "", fmt.Errorf("%q: %w", action, ErrUnknownMinerAction)
	}

	return a.postPretty(ctx, MinerActionPath(action), minerControlRequest{MinerID: minerID})
}

func (a *App) ThrottleMiner(ctx context.Context, minerID string, percent int32) (string, error) {
	if err := ValidateMinerID(minerID); err != nil {
		return "", err
	}

	if percent < 0 || percent > 100 {
		return "", fmt.Errorf("%d: %w", percent, ErrInvalidThrottlePercent)
	}

	return a.postPretty(ctx, MinerActionPath(MinerThrottle), minerThrottleRequest{
		MinerID:         minerID,
		ThrottlePercent: percent,
	})
}

func (a *App) getPretty(ctx context.Context, path string) (string, error) {
	res, err := a.call(ctx, http.MethodGet, path, a.authHeaders(), nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	return PrettyJSON(res.Body)
}

func (a *App) postPretty(ctx context.Context, path string, body interface{}) (string, error) {
	res, err := a.call(ctx, http.MethodPost, path, a.authHeaders(), body)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return StatusError(res), nil
	}

	return PrettyJSON(res.Body)
}

func decodeJSON(body []byte, path string, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s: could not parse response body: %w", path, err)
	}

	return nil
}
