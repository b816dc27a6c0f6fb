package keystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put("groth16", "mint", "vk", []byte{0x01, 0x02}))

	got, err := s.Get("groth16", "mint", "vk")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, got)
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)

	_, err := s.Get("groth16", "mint", "vk")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("groth16", "mint", "vk", []byte{0x01}))
	_, err = s.Get("groth16", "mint", "pk")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("plonk", "mint", "vk")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPutOverwrites(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put("plonk", "burn", "pk", []byte{0xaa}))
	require.NoError(t, s.Put("plonk", "burn", "pk", []byte{0xbb}))

	got, err := s.Get("plonk", "burn", "pk")
	require.NoError(t, err)
	require.Equal(t, []byte{0xbb}, got)
}

func TestKeysDoNotCollide(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put("groth16", "mint", "vk", []byte{0x01}))
	require.NoError(t, s.Put("groth16", "burn", "vk", []byte{0x02}))

	mint, err := s.Get("groth16", "mint", "vk")
	require.NoError(t, err)
	burn, err := s.Get("groth16", "burn", "vk")
	require.NoError(t, err)
	require.NotEqual(t, mint, burn)
}
