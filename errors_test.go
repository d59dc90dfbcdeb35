package procmesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefError_AggregatesAllIssues(t *testing.T) {
	_, err := Validate(Builder{
		Channels: []ChannelDesc{
			{ID: 0, Topology: Simplex, Producers: []ProcessID{0, 5}, Consumers: []ProcessID{1}},
		},
		Processes: []ProcessDesc{
			{ID: 0, Kind: Anisochronous},
			{ID: 1, Kind: Asynchronous},
		},
	})
	require.Error(t, err)

	var defErr *DefError
	require.True(t, errors.As(err, &defErr))
	assert.Greater(t, len(defErr.Issues), 1, "a single pass should surface every violation, not just the first")
}

func TestDefError_IsMatchesByKind(t *testing.T) {
	_, err := Validate(Builder{
		Channels: []ChannelDesc{
			{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1, 2}},
		},
		Processes: []ProcessDesc{
			{ID: 0, Kind: Anisochronous},
			{ID: 1, Kind: Asynchronous, Endpoints: []ChannelID{0}},
			{ID: 2, Kind: Asynchronous, Endpoints: []ChannelID{0}},
		},
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, DefIssue{Kind: TopologyCardinalityMismatch}))
	assert.False(t, errors.Is(err, DefIssue{Kind: AsyncRequiresSingleEndpoint}))
}

func TestSendError_ReturnsUnsentMessage(t *testing.T) {
	c := newChannel(ChannelDesc{ID: 0, Topology: Simplex, Producers: []ProcessID{0}, Consumers: []ProcessID{1}})
	sp := c.sourcepoint(0)
	ep := c.endpoint(1)
	ep.Release()

	err := sp.Send("undeliverable")
	require.Error(t, err)

	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, "undeliverable", sendErr.Msg)
}

func TestPanicError_UnwrapsErrorValue(t *testing.T) {
	cause := errors.New("boom")
	pe := &PanicError{Process: 3, Value: cause}
	assert.ErrorIs(t, pe, cause)
}

func TestPanicError_NonErrorValueUnwrapsToNil(t *testing.T) {
	pe := &PanicError{Process: 3, Value: "not an error"}
	assert.Nil(t, pe.Unwrap())
}

func TestSession_PanicInCallbackConvertsToSessionError(t *testing.T) {
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{
				ID: 0, Name: "Boom", Kind: Anisochronous,
				Update: func(p *Proc) ControlFlow { panic("kaboom") },
			},
		},
	})
	require.NoError(t, err)

	_, err = NewSession(def).Run()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, ProcessID(0), panicErr.Process)
}
