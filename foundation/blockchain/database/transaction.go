package database

import (
	"cmp"
	"crypto/sha256"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/hashing"
)

// ErrInvalidTransaction is returned when a transaction has malformed fields.
var ErrInvalidTransaction = errors.New("invalid transaction")

// =============================================================================

// Tx is the transactional information between two parties. A Tx is a value
// that is never modified after construction and two transactions with the
// same fields are the same transaction.
type Tx struct {
	Sender    string `json:"sender"`    // Identifier of the party sending the amount.
	Recipient string `json:"recipient"` // Identifier of the party receiving the amount.
	Amount    int64  `json:"amount"`    // Value transferred, never negative.
}

// NewTx constructs a new transaction and validates its fields.
func NewTx(sender string, recipient string, amount int64) (Tx, error) {
	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// Validate checks the transaction has a sender, a recipient and an amount
// that is not negative.
func (tx Tx) Validate() error {
	if strings.TrimSpace(tx.Sender) == "" {
		return fmt.Errorf("%w: sender is required", ErrInvalidTransaction)
	}

	if strings.TrimSpace(tx.Recipient) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidTransaction)
	}

	if tx.Amount < 0 {
		return fmt.Errorf("%w: amount %d is negative", ErrInvalidTransaction, tx.Amount)
	}

	return nil
}

// Hash returns the digest of the transaction. This is the leaf value used
// when the transactions of a block are placed in a merkle tree.
func (tx Tx) Hash() [sha256.Size]byte {
	return hashing.Sum(tx)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// CompareTx defines the total order of transactions: by sender, then by
// recipient, then by amount. It returns a negative number when a < b, zero
// when a == b and a positive number when a > b.
func CompareTx(a, b Tx) int {
	if c := cmp.Compare(a.Sender, b.Sender); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Recipient, b.Recipient); c != 0 {
		return c
	}

	return cmp.Compare(a.Amount, b.Amount)
}

// SortTxs returns a new slice holding the set of transactions in their
// defined order with duplicates collapsed.
func SortTxs(trans []Tx) []Tx {
	set := slices.Clone(trans)
	slices.SortFunc(set, CompareTx)

	return slices.Compact(set)
}
