package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load the genesis information.")
	{
		gen, err := genesis.Load("")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the defaults: %v", failed, err)
		}
		if gen.Difficulty != genesis.DefaultDifficulty {
			t.Fatalf("\t%s\tShould get the default difficulty: got %d", failed, gen.Difficulty)
		}
		t.Logf("\t%s\tShould be able to load the defaults.", success)

		dir := t.TempDir()

		path := filepath.Join(dir, "genesis.json")
		content := `{"date":"2026-03-01T00:00:00Z","difficulty":12,"proof_floor":1000}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write the genesis file: %v", failed, err)
		}

		gen, err = genesis.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the genesis file: %v", failed, err)
		}
		if gen.Difficulty != 12 || gen.ProofFloor != 1000 || gen.Date.Month() != 3 {
			t.Fatalf("\t%s\tShould get the values from the file: %+v", failed, gen)
		}
		t.Logf("\t%s\tShould be able to load the genesis file.", success)

		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte(`{"date":"2026-03-01T00:00:00Z","difficulty":300}`), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write the genesis file: %v", failed, err)
		}

		if _, err := genesis.Load(bad); err == nil {
			t.Fatalf("\t%s\tShould reject a difficulty that can't be solved.", failed)
		}
		t.Logf("\t%s\tShould reject a difficulty that can't be solved.", success)
	}
}
