package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)

	require.NoError(t, rw.WritePacket([]byte("wake")))
	require.NoError(t, rw.WritePacket(nil))
	require.NoError(t, rw.WritePacket([]byte{0xff}))

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("wake"), pkt)

	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)

	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xff}, pkt)

	_, err = rw.ReadPacket()
	require.Error(t, err)
}

func TestLengthPrefixLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).WritePacket([]byte{0xaa, 0xbb}))
	require.Equal(t, []byte{2, 0, 0, 0, 0xaa, 0xbb}, buf.Bytes())
}
