package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/stretchr/testify/require"
)

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    *int64 `json:"amount" validate:"required,gte=0"`
}

func TestCheck(t *testing.T) {
	amount := int64(10)
	require.NoError(t, validate.Check(newTx{Sender: "A", Recipient: "B", Amount: &amount}))

	err := validate.Check(newTx{Sender: "A"})
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	require.Len(t, fields, 2)
	require.Contains(t, fields, "recipient")
	require.Contains(t, fields, "amount")

	negative := int64(-1)
	err = validate.Check(newTx{Sender: "A", Recipient: "B", Amount: &negative})
	require.Contains(t, validate.GetFieldErrors(err).Fields(), "amount")
}
