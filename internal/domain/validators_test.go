package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ValidateCurrency Tests ---

func TestValidateCurrency(t *testing.T) {
	t.Run("valid codes", func(t *testing.T) {
		for _, code := range []string{"USD", "EUR", "GBP"} {
			assert.NoError(t, ValidateCurrency(code), code)
		}
	})

	t.Run("invalid codes", func(t *testing.T) {
		for _, code := range []string{"", "usd", "US", "USDD", "U$D"} {
			assert.Error(t, ValidateCurrency(code), code)
		}
	})
}

// --- ValidatePositiveAmount Tests ---

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(1))
	assert.NoError(t, ValidatePositiveAmount(100000))
	assert.Error(t, ValidatePositiveAmount(0))
	assert.Error(t, ValidatePositiveAmount(-100))
}

// --- ValidateNumbers Tests ---

func TestValidateNumbers(t *testing.T) {
	t.Run("valid selection", func(t *testing.T) {
		assert.NoError(t, ValidateNumbers([]int32{1, 2, 3}))
	})

	t.Run("empty rejected", func(t *testing.T) {
		assert.Error(t, ValidateNumbers(nil))
		assert.Error(t, ValidateNumbers([]int32{}))
	})

	t.Run("negative rejected", func(t *testing.T) {
		assert.Error(t, ValidateNumbers([]int32{1, -2, 3}))
	})

	t.Run("zero allowed", func(t *testing.T) {
		assert.NoError(t, ValidateNumbers([]int32{0}))
	})
}

// --- PostLedgerEntryParams Tests ---

func TestPostLedgerEntryParamsDelta(t *testing.T) {
	debit := PostLedgerEntryParams{Type: TxDebit, Amount: 500}
	assert.Equal(t, int64(-500), debit.Delta())

	credit := PostLedgerEntryParams{Type: TxCredit, Amount: 500}
	assert.Equal(t, int64(500), credit.Delta())
}

// --- AppError Tests ---

func TestAppError(t *testing.T) {
	t.Run("message includes code", func(t *testing.T) {
		err := ErrDrawClosed()
		assert.Contains(t, err.Error(), "DRAW_CLOSED")
		assert.Equal(t, 400, err.Status)
	})

	t.Run("cause is unwrapped", func(t *testing.T) {
		cause := assert.AnError
		err := ErrInternal("boom", cause)
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("lifecycle codes", func(t *testing.T) {
		assert.Equal(t, "WRONG_COUNT", ErrWrongCount(6).Code)
		assert.Equal(t, "OUT_OF_RANGE", ErrOutOfRange(1, 49).Code)
		assert.Equal(t, "CANNOT_CLOSE", ErrCannotClose().Code)
		assert.Equal(t, "MUST_CLOSE_FIRST", ErrMustCloseFirst().Code)
		assert.Equal(t, "NOT_READY", ErrNotReady().Code)
		assert.Equal(t, "RESULT_MISSING", ErrResultMissing().Code)
		assert.Equal(t, "NO_TIERS", ErrNoTiers().Code)
	})
}
