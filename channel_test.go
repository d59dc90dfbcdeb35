package procmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplexChannel_SendRecv(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	ep := c.endpoint(1)

	require.NoError(t, sp.Send("hello"))
	v, outcome := ep.TryRecv()
	require.Equal(t, Delivered, outcome)
	assert.Equal(t, "hello", v)

	sp.Release()
	_, outcome = ep.TryRecv()
	assert.Equal(t, Disconnected, outcome)
}

func TestSinkChannel_MultiProducerFIFOPerProducer(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Sink, Producers: []ProcessID{0, 1}, Consumers: []ProcessID{2}})
	spA := c.sourcepoint(0)
	spB := c.sourcepoint(1)
	ep := c.endpoint(2)

	require.NoError(t, spA.Send("a0"))
	require.NoError(t, spA.Send("a1"))
	require.NoError(t, spB.Send("b0"))

	seen := map[string]bool{}
	pos := map[string]int{}
	for i := 0; i < 3; i++ {
		v, outcome := ep.TryRecv()
		require.Equal(t, Delivered, outcome)
		seen[v.(string)] = true
		pos[v.(string)] = i
	}
	assert.True(t, seen["a0"] && seen["a1"] && seen["b0"])
	assert.Less(t, pos["a0"], pos["a1"], "producer A's messages must arrive in send order")

	spA.Release()
	_, outcome := ep.TryRecv()
	assert.Equal(t, Empty, outcome, "still live: B hasn't released")

	spB.Release()
	_, outcome = ep.TryRecv()
	assert.Equal(t, Disconnected, outcome)
}

func TestSourceChannel_UnicastRouting(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Source, Producers: []ProcessID{0}, Consumers: []ProcessID{1, 2}})
	sp := c.sourcepoint(0)
	ep1 := c.endpoint(1)
	ep2 := c.endpoint(2)

	require.NoError(t, sp.SendTo(1, "for-1"))
	require.NoError(t, sp.SendTo(2, "for-2"))

	v, outcome := ep1.TryRecv()
	require.Equal(t, Delivered, outcome)
	assert.Equal(t, "for-1", v)

	_, outcome = ep1.TryRecv()
	assert.Equal(t, Empty, outcome)

	v, outcome = ep2.TryRecv()
	require.Equal(t, Delivered, outcome)
	assert.Equal(t, "for-2", v)
}

func TestSourcepoint_SendPanicsOnWrongTopology(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Source, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	assert.Panics(t, func() { _ = sp.Send("x") })
}

func TestSourcepoint_SendToPanicsOnWrongTopology(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	assert.Panics(t, func() { _ = sp.SendTo(1, "x") })
}

func TestSourcepoint_ReleaseIsIdempotent(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	sp.Release()
	assert.NotPanics(t, func() { sp.Release() })
}

func TestChannel_Orphans(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	require.NoError(t, sp.Send("never read"))
	assert.Equal(t, 1, c.orphans())
}
