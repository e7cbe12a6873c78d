// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// DefaultDifficulty is the difficulty used when no genesis file is provided.
const DefaultDifficulty = 16

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time `json:"date"`        // The timestamp of the genesis block.
	Difficulty uint16    `json:"difficulty"`  // How difficult it needs to be to solve the work problem.
	ProofFloor uint64    `json:"proof_floor"` // Where the search for a proof starts.
}

// Default returns the genesis information used when no file is configured.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: DefaultDifficulty,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default genesis information.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file %q: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis information can produce a chain.
func (g Genesis) Validate() error {
	if uint(g.Difficulty) > database.MaxDifficulty {
		return fmt.Errorf("difficulty %d is greater than the max of %d", g.Difficulty, database.MaxDifficulty)
	}

	if g.Date.IsZero() {
		return fmt.Errorf("date is required")
	}

	return nil
}

// Timestamp returns the genesis date in unix milliseconds.
func (g Genesis) Timestamp() uint64 {
	return uint64(g.Date.UTC().UnixMilli())
}
