package phpipam

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	return []Record{
		{"id": "1", "hostname": "sw1", "site": "nyc"},
		{"id": "2", "hostname": "sw2", "site": "nyc"},
		{"id": "3", "hostname": "rtr1", "site": "sfo"},
	}
}

func TestBuildIndexSingleField(t *testing.T) {
	t.Parallel()

	records := testRecords()

	catalog, err := BuildIndex(records, KeyField("id"))
	require.NoError(t, err)

	// one entry per distinct key value
	assert.Len(t, catalog, 3)

	for _, rec := range records {
		got, ok := catalog.Lookup(rec["id"].(string))
		require.True(t, ok)
		assert.Equal(t, rec, got)
	}
}

func TestBuildIndexFieldTuple(t *testing.T) {
	t.Parallel()

	records := testRecords()

	catalog, err := BuildIndex(records, KeyFields("site", "hostname"))
	require.NoError(t, err)
	assert.Len(t, catalog, 3)

	got, ok := catalog.Lookup(CompositeKey("nyc", "sw2"))
	require.True(t, ok)
	assert.Equal(t, records[1], got)
}

func TestBuildIndexDeriveFunc(t *testing.T) {
	t.Parallel()

	records := testRecords()

	catalog, err := BuildIndex(records, KeyFunc(func(rec Record) (string, error) {
		return "host-" + rec["hostname"].(string), nil
	}))
	require.NoError(t, err)

	got, ok := catalog.Lookup("host-rtr1")
	require.True(t, ok)
	assert.Equal(t, records[2], got)
}

func TestBuildIndexDeriveFuncError(t *testing.T) {
	t.Parallel()

	_, err := BuildIndex(testRecords(), KeyFunc(func(Record) (string, error) {
		return "", errors.New("no key for you")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key for you")
}

func TestBuildIndexInvalidKeySpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  KeySpec
	}{
		{name: "zero value", key: KeySpec{}},
		{name: "empty field name", key: KeyField("")},
		{name: "empty field tuple", key: KeyFields()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildIndex(testRecords(), tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidKeySpec)
		})
	}
}

func TestBuildIndexLastWriteWins(t *testing.T) {
	t.Parallel()

	records := []Record{
		{"id": "1", "hostname": "first"},
		{"id": "1", "hostname": "second"},
	}

	catalog, err := BuildIndex(records, KeyField("id"))
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	got, ok := catalog.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "second", got["hostname"])
}

func TestBuildIndexMissingField(t *testing.T) {
	t.Parallel()

	records := []Record{
		{"id": "1"},
		{"hostname": "no-id"},
	}

	_, err := BuildIndex(records, KeyField("id"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestBuildIndexNumericAndBoolKeys(t *testing.T) {
	t.Parallel()

	// JSON decoding yields float64 for numbers
	records := []Record{
		{"id": float64(7), "active": true},
		{"id": float64(8), "active": false},
	}

	catalog, err := BuildIndex(records, KeyField("id"))
	require.NoError(t, err)

	_, ok := catalog.Lookup("7")
	assert.True(t, ok)
	_, ok = catalog.Lookup("8")
	assert.True(t, ok)

	catalog, err = BuildIndex(records, KeyField("active"))
	require.NoError(t, err)
	_, ok = catalog.Lookup("true")
	assert.True(t, ok)
}

func TestBuildIndexEmptyInput(t *testing.T) {
	t.Parallel()

	catalog, err := BuildIndex(nil, KeyField("id"))
	require.NoError(t, err)
	assert.Empty(t, catalog)

	_, ok := catalog.Lookup("anything")
	assert.False(t, ok)
}

func TestCompositeKeyOrderMatters(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, CompositeKey("a", "b"), CompositeKey("b", "a"))
}
