package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, s.Put(CollCart, "shopper@example.com", payload{Name: "lamp", Count: 2}))

	var got payload
	found, err := s.Get(CollCart, "shopper@example.com", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "lamp", Count: 2}, got)
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var got map[string]any
	found, err := s.Get(CollWishlist, "nobody@example.com", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

// 损坏的存量数据回退为空集合，不向上抛错
func TestGetCorruptPayload(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(CollOrders)).Put([]byte("ORD-1-0001"), []byte("{not json"))
	}))

	var got map[string]any
	found, err := s.Get(CollOrders, "ORD-1-0001", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(CollSession, KeyUser, "shopper@example.com"))
	require.NoError(t, s.Delete(CollSession, KeyUser))
	// 再删一次也不报错
	require.NoError(t, s.Delete(CollSession, KeyUser))

	var got string
	found, err := s.Get(CollSession, KeyUser, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestForEach(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(CollOrders, "a", 1))
	require.NoError(t, s.Put(CollOrders, "b", 2))

	var keys []string
	require.NoError(t, s.ForEach(CollOrders, func(key string, raw []byte) error {
		keys = append(keys, key)
		return nil
	}))
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}
