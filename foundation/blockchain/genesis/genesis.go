// Package genesis maintains access to the genesis settings.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values used when no genesis file is provided.
const (
	DefaultProof        uint64 = 100 // Placeholder proof of the genesis block.
	DefaultMiningReward int64  = 1   // Amount credited to a miner per block.
)

// defaultDate is the genesis timestamp every node shares by default so
// independently started nodes produce the same genesis block.
var defaultDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date" toml:"date"`                   // Timestamp recorded in the genesis block.
	Proof        uint64    `json:"proof" toml:"proof"`                 // Placeholder proof the first mined block builds on.
	MiningReward int64     `json:"mining_reward" toml:"mining_reward"` // Reward for mining a block.
}

// =============================================================================

// Default returns the genesis settings used when no file is configured.
func Default() Genesis {
	return Genesis{
		Date:         defaultDate,
		Proof:        DefaultProof,
		MiningReward: DefaultMiningReward,
	}
}

// Load opens and consumes the genesis file. Files with a .toml extension
// are decoded as TOML, anything else as JSON. An empty path returns the
// default settings. Fields missing from the file keep their default value.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	genesis := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(content), &genesis); err != nil {
			return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
		}

	default:
		if err := json.Unmarshal(content, &genesis); err != nil {
			return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
		}
	}

	return genesis, nil
}
