package buf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssungk/wirebuf/pkg/buf"
)

func TestIteratorCloneIsIndependent(t *testing.T) {
	b, err := buf.NewBuffer(buf.Options{BlockSize: 32})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.AddBack([]byte("0123456789")))

	begin := b.Begin()
	defer begin.Close()

	clone := begin.Clone()
	defer clone.Close()

	clone.Advance(4)

	require.True(t, begin.Equal(b.Begin()), "advancing a clone must not move the source")
	require.Equal(t, 4, clone.Minus(begin))
}

func TestIteratorPlusDoesNotMutateReceiver(t *testing.T) {
	b, err := buf.NewBuffer(buf.Options{BlockSize: 32})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.AddBack([]byte("abcdefghijklmnop")))

	begin := b.Begin()
	defer begin.Close()

	ahead := begin.Plus(3)
	defer ahead.Close()

	require.Equal(t, 3, ahead.Minus(begin))
	require.Equal(t, byte('a'), begin.Byte())
	require.Equal(t, byte('d'), ahead.Byte())
}

func TestIteratorLessIsStrictWeakOrdering(t *testing.T) {
	b, err := buf.NewBuffer(buf.Options{BlockSize: 8})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.AddBack(make([]byte, 8*3)))

	begin := b.Begin()
	defer begin.Close()

	mid := begin.Plus(10)
	defer mid.Close()

	require.True(t, begin.Less(mid))
	require.False(t, mid.Less(begin))
	require.False(t, begin.Less(begin))
}
