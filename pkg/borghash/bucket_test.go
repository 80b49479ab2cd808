package borghash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBucketStoreAllEmpty(t *testing.T) {
	bs := newBucketStore(4, 8, 4)

	for i := 0; i < 4; i++ {
		require.True(t, bs.isEmpty(i))
		require.False(t, bs.isDeleted(i))
		require.False(t, bs.isOccupied(i))
	}
}

func TestBucketStorePutAndState(t *testing.T) {
	bs := newBucketStore(4, 8, 4)

	key := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	value := []byte{0, 0, 0, 0}

	bs.put(0, key, value)

	require.True(t, bs.isOccupied(0))
	require.Equal(t, key, bs.key(0))
	require.Equal(t, value, bs.value(0))
}

func TestBucketStoreMoveMarksSourceDeleted(t *testing.T) {
	bs := newBucketStore(4, 8, 4)

	key := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	value := []byte{9, 9, 9, 9}
	bs.put(2, key, value)

	bs.move(0, 2)

	require.True(t, bs.isOccupied(0))
	require.Equal(t, key, bs.key(0))
	require.Equal(t, value, bs.value(0))
	require.True(t, bs.isDeleted(2))
}

func TestBucketStoreFromBytesWrapsVerbatim(t *testing.T) {
	src := newBucketStore(2, 4, 4)
	src.put(0, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 8})

	wrapped := bucketStoreFromBytes(src.buf, 2, 4, 4)

	require.True(t, wrapped.isOccupied(0))
	require.Equal(t, []byte{1, 2, 3, 4}, wrapped.key(0))
	require.True(t, wrapped.isEmpty(1))
}

func TestSlotOffsetLayout(t *testing.T) {
	bs := newBucketStore(3, 5, 6)
	require.Equal(t, 0, bs.slotOffset(0))
	require.Equal(t, 11, bs.slotOffset(1))
	require.Equal(t, 22, bs.slotOffset(2))
}
