package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// --- Parse Tests ---

func TestParse(t *testing.T) {
	t.Run("full rule set", func(t *testing.T) {
		rs := Parse(json.RawMessage(`{"numbers":6,"min":1,"max":49,"ticket_price":250}`))
		assert.Equal(t, 6, rs.Numbers)
		require.NotNil(t, rs.Min)
		require.NotNil(t, rs.Max)
		assert.Equal(t, 1, *rs.Min)
		assert.Equal(t, 49, *rs.Max)
		assert.Equal(t, int64(250), rs.TicketPrice)
	})

	t.Run("empty input yields zero rule set", func(t *testing.T) {
		rs := Parse(nil)
		assert.Equal(t, RuleSet{}, rs)
	})

	t.Run("malformed JSON yields zero rule set", func(t *testing.T) {
		rs := Parse(json.RawMessage(`{not json`))
		assert.Equal(t, RuleSet{}, rs)
	})

	t.Run("unknown fields tolerated", func(t *testing.T) {
		rs := Parse(json.RawMessage(`{"numbers":5,"legacy_field":true}`))
		assert.Equal(t, 5, rs.Numbers)
	})
}

// --- ParseStrict Tests ---

func TestParseStrict(t *testing.T) {
	t.Run("valid rules accepted", func(t *testing.T) {
		rs, err := ParseStrict(json.RawMessage(`{"numbers":6,"min":1,"max":49}`))
		require.NoError(t, err)
		assert.Equal(t, 6, rs.Numbers)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		_, err := ParseStrict(json.RawMessage(`{"numbers":6,"bogus":1}`))
		require.Error(t, err)
	})

	t.Run("missing numbers rejected", func(t *testing.T) {
		_, err := ParseStrict(json.RawMessage(`{"min":1,"max":10}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "numbers")
	})

	t.Run("min without max rejected", func(t *testing.T) {
		_, err := ParseStrict(json.RawMessage(`{"numbers":3,"min":1}`))
		require.Error(t, err)
	})

	t.Run("min greater than max rejected", func(t *testing.T) {
		_, err := ParseStrict(json.RawMessage(`{"numbers":3,"min":50,"max":10}`))
		require.Error(t, err)
	})

	t.Run("negative ticket price rejected", func(t *testing.T) {
		_, err := ParseStrict(json.RawMessage(`{"numbers":3,"ticket_price":-5}`))
		require.Error(t, err)
	})
}

// --- ValidateSelection Tests ---

func TestValidateSelection(t *testing.T) {
	rs := RuleSet{Numbers: 3, Min: intPtr(1), Max: intPtr(10)}

	t.Run("valid selection", func(t *testing.T) {
		assert.Nil(t, ValidateSelection(rs, []int32{1, 5, 10}))
	})

	t.Run("wrong count", func(t *testing.T) {
		err := ValidateSelection(rs, []int32{1, 5})
		require.NotNil(t, err)
		assert.Equal(t, "WRONG_COUNT", err.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		err := ValidateSelection(rs, []int32{1, 5, 11})
		require.NotNil(t, err)
		assert.Equal(t, "OUT_OF_RANGE", err.Code)
	})

	t.Run("count checked before range", func(t *testing.T) {
		err := ValidateSelection(rs, []int32{99})
		require.NotNil(t, err)
		assert.Equal(t, "WRONG_COUNT", err.Code)
	})

	t.Run("zero rule set accepts anything", func(t *testing.T) {
		assert.Nil(t, ValidateSelection(RuleSet{}, []int32{1, 2, 3, 4, 5, 6, 7}))
	})

	t.Run("boundary values accepted", func(t *testing.T) {
		assert.Nil(t, ValidateSelection(rs, []int32{1, 10, 5}))
	})

	t.Run("duplicates allowed", func(t *testing.T) {
		assert.Nil(t, ValidateSelection(rs, []int32{7, 7, 7}))
	})
}

// --- ResolvePrice Tests ---

func TestResolvePrice(t *testing.T) {
	t.Run("rule set price wins", func(t *testing.T) {
		assert.Equal(t, int64(500), ResolvePrice(RuleSet{TicketPrice: 500}, 200))
	})

	t.Run("setting used when rule set has no price", func(t *testing.T) {
		assert.Equal(t, int64(200), ResolvePrice(RuleSet{}, 200))
	})

	t.Run("default used when nothing is configured", func(t *testing.T) {
		assert.Equal(t, DefaultTicketPrice, ResolvePrice(RuleSet{}, 0))
	})
}
