package collection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type card struct {
	ID    string
	Order int
	Label string
}

func (c *card) GetID() string   { return c.ID }
func (c *card) SetID(id string) { c.ID = id }
func (c *card) GetOrder() int   { return c.Order }
func (c *card) SetOrder(o int)  { c.Order = o }

func assertDense(t *testing.T, items []card) {
	t.Helper()
	for i, it := range items {
		assert.Equal(t, i+1, it.Order, "position %d", i)
	}
}

func build(t *testing.T, labels ...string) []card {
	t.Helper()
	var items []card
	for _, l := range labels {
		var err error
		items, err = Append(items, card{Label: l})
		require.NoError(t, err)
	}
	return items
}

func TestAppendAssignsIdentityAndOrder(t *testing.T) {
	items := build(t, "a", "b", "c")

	require.Len(t, items, 3)
	assertDense(t, items)
	seen := map[string]bool{}
	for _, it := range items {
		require.NotEmpty(t, it.ID)
		assert.False(t, seen[it.ID])
		seen[it.ID] = true
	}
}

func TestAppendIgnoresClientIdentityAndOrder(t *testing.T) {
	items, err := Append([]card(nil), card{ID: "forged", Order: 99, Label: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, "forged", items[0].ID)
	assert.Equal(t, 1, items[0].Order)
}

func TestAppendGuardRejects(t *testing.T) {
	items := build(t, "a", "b")
	limit := func(count int) error {
		if count >= 2 {
			return errors.New("full")
		}
		return nil
	}

	out, err := Append(items, card{Label: "c"}, limit)
	require.EqualError(t, err, "full")
	assert.Len(t, out, 2)
	assert.Equal(t, items, out)
}

func TestAppendDoesNotAliasInput(t *testing.T) {
	items := make([]card, 0, 8)
	items, _ = Append(items, card{Label: "a"})

	first, err := Append(items, card{Label: "b"})
	require.NoError(t, err)
	second, err := Append(items, card{Label: "c"})
	require.NoError(t, err)

	assert.Equal(t, "b", first[1].Label)
	assert.Equal(t, "c", second[1].Label)
}

func TestUpdatePatchesOnlyTarget(t *testing.T) {
	items := build(t, "a", "b", "c")
	target := items[1].ID

	out, err := Update(items, target, func(c *card) {
		c.Label = "B"
		c.ID = "hijack"
		c.Order = 7
	})
	require.NoError(t, err)

	assert.Equal(t, "b", items[1].Label, "input must stay unchanged")
	assert.Equal(t, "B", out[1].Label)
	assert.Equal(t, target, out[1].ID)
	assert.Equal(t, 2, out[1].Order)
	assert.Equal(t, "a", out[0].Label)
	assert.Equal(t, "c", out[2].Label)
}

func TestUpdateMissing(t *testing.T) {
	items := build(t, "a")
	_, err := Update(items, "nope", func(c *card) {})
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = Update(items, "", func(c *card) {})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteRenumbers(t *testing.T) {
	items := build(t, "a", "b", "c", "d")

	out, err := Delete(items, items[1].ID)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assertDense(t, out)
	assert.Equal(t, []string{"a", "c", "d"}, labels(out))
	assert.Len(t, items, 4)
}

func TestDeleteMissing(t *testing.T) {
	items := build(t, "a")
	out, err := Delete(items, "nope")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, items, out)
}

func TestDenseAfterRandomAppendsAndDeletes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var items []card
	for step := 0; step < 500; step++ {
		if len(items) > 0 && rng.Intn(3) == 0 {
			victim := items[rng.Intn(len(items))].ID
			var err error
			items, err = Delete(items, victim)
			require.NoError(t, err)
		} else {
			var err error
			items, err = Append(items, card{})
			require.NoError(t, err)
		}
		assertDense(t, items)
	}
}

func TestReorderPermutation(t *testing.T) {
	items := build(t, "a", "b", "c")
	ids := []string{items[2].ID, items[0].ID, items[1].ID}

	out, err := Reorder(items, ids)
	require.NoError(t, err)

	assert.Equal(t, ids, IDs(out))
	assert.Equal(t, []int{1, 2, 3}, Orders(out))
	assert.Equal(t, []string{"c", "a", "b"}, labels(out))
	assert.Equal(t, []string{"a", "b", "c"}, labels(items))
}

func TestReorderRejectsNonPermutations(t *testing.T) {
	items := build(t, "a", "b", "c")
	a, b, c := items[0].ID, items[1].ID, items[2].ID

	tests := []struct {
		name string
		ids  []string
	}{
		{name: "omission", ids: []string{a, b}},
		{name: "duplicate", ids: []string{a, a, b}},
		{name: "foreign", ids: []string{a, b, "zzz"}},
		{name: "extra", ids: []string{a, b, c, "zzz"}},
		{name: "empty", ids: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Reorder(items, tt.ids)
			assert.ErrorIs(t, err, ErrInvalidPermutation)
			assert.Equal(t, items, out)
		})
	}
}

func TestReorderEmptyCollection(t *testing.T) {
	out, err := Reorder([]card{}, []string{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNormalizeRepairsSparseOrders(t *testing.T) {
	items := []card{{ID: "x", Order: 9}, {ID: "y", Order: 2}, {ID: "z", Order: 5}}

	out := Normalize(items)

	assert.Equal(t, []string{"y", "z", "x"}, IDs(out))
	assertDense(t, out)
	assert.Equal(t, 9, items[0].Order)
}

func TestFind(t *testing.T) {
	items := build(t, "a", "b")
	got, ok := Find(items, items[1].ID)
	require.True(t, ok)
	assert.Equal(t, "b", got.Label)

	_, ok = Find(items, "nope")
	assert.False(t, ok)
}

func labels(items []card) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}
