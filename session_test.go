package procmesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quitMsg struct{}

func intSourceBuilder() Builder {
	const (
		genID  ProcessID = 0
		sum1ID ProcessID = 1
		sum2ID ProcessID = 2
		intsCh ChannelID = 0
	)

	next := 0
	sentQuit := map[ProcessID]bool{}
	genUpdate := func(p *Proc) ControlFlow {
		if next >= 10 {
			for _, target := range []ProcessID{sum1ID, sum2ID} {
				if !sentQuit[target] {
					_ = p.SendTo(intsCh, target, quitMsg{})
					sentQuit[target] = true
				}
			}
			return Break
		}
		v := next
		next++
		target := sum1ID
		if v%2 != 0 {
			target = sum2ID
		}
		_ = p.SendTo(intsCh, target, v)
		return Continue
	}
	sumHandler := func(p *Proc, _ ChannelID, msg any) ControlFlow {
		switch m := msg.(type) {
		case quitMsg:
			return Break
		case int:
			cur, _ := p.ResultRef().(int)
			p.SetResult(cur + m)
			return Continue
		default:
			return Continue
		}
	}

	return Builder{
		Channels: []ChannelDesc{
			{ID: intsCh, Name: "Ints", Topology: Source, Producers: []ProcessID{genID}, Consumers: []ProcessID{sum1ID, sum2ID}},
		},
		Processes: []ProcessDesc{
			{ID: genID, Name: "IntGen", Kind: Isochronous, TickInterval: time.Millisecond, TicksPerUpdate: 1, Sourcepoints: []ChannelID{intsCh}, Update: genUpdate},
			{ID: sum1ID, Name: "Sum1", Kind: Asynchronous, Endpoints: []ChannelID{intsCh}, HasResult: true, HandleMessage: sumHandler},
			{ID: sum2ID, Name: "Sum2", Kind: Asynchronous, Endpoints: []ChannelID{intsCh}, HasResult: true, HandleMessage: sumHandler},
		},
	}
}

func TestSession_IntSourceScenario(t *testing.T) {
	def, err := Validate(intSourceBuilder())
	require.NoError(t, err)

	result, err := NewSession(def).Run()
	require.NoError(t, err)

	sum1, ok := ExtractResult[int](result.Results, 1)
	require.True(t, ok)
	sum2, ok := ExtractResult[int](result.Results, 2)
	require.True(t, ok)

	assert.Equal(t, 20, sum1)
	assert.Equal(t, 25, sum2)
}

func TestSession_RunTwiceFails(t *testing.T) {
	def, err := Validate(intSourceBuilder())
	require.NoError(t, err)

	sess := NewSession(def)
	_, err = sess.Run()
	require.NoError(t, err)

	_, err = sess.Run()
	assert.ErrorIs(t, err, ErrSessionAlreadyRun)
}

func TestSession_AllBreakOnFirstUpdateYieldsEmptyResults(t *testing.T) {
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{ID: 0, Name: "P0", Kind: Anisochronous, Update: func(p *Proc) ControlFlow { return Break }},
		},
	})
	require.NoError(t, err)

	result, err := NewSession(def).Run()
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}

func TestSession_HasResultWithoutSetResultIsAbsentFromResults(t *testing.T) {
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{
				ID: 0, Name: "NeverWrites", Kind: Anisochronous, HasResult: true,
				Update: func(p *Proc) ControlFlow { return Break },
			},
		},
	})
	require.NoError(t, err)

	result, err := NewSession(def).Run()
	require.NoError(t, err)

	_, ok := ExtractResult[any](result.Results, 0)
	assert.False(t, ok, "a HasResult process that never calls SetResult must not appear in Results")
}

func TestSession_InitializeErrorSurfaces(t *testing.T) {
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{ID: 0, Name: "Bad", Kind: Anisochronous, Initialize: func(p *Proc) error { return assert.AnError }},
		},
	})
	require.NoError(t, err)

	_, err = NewSession(def).Run()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSession_TerminateForwardsIntoContinuation(t *testing.T) {
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{
				ID:   0,
				Name: "P0",
				Kind: Anisochronous,
				Update: func(p *Proc) ControlFlow {
					return Break
				},
				Terminate: func(p *Proc) any {
					return "forwarded-state"
				},
			},
		},
	})
	require.NoError(t, err)

	result, err := NewSession(def).Run()
	require.NoError(t, err)
	assert.Equal(t, "forwarded-state", result.Terminations[0])
}

func TestSession_RunContinueSeedsContinuation(t *testing.T) {
	var seen any
	def, err := Validate(Builder{
		Processes: []ProcessDesc{
			{
				ID:   0,
				Name: "P0",
				Kind: Anisochronous,
				Update: func(p *Proc) ControlFlow {
					seen = p.Continuation()
					return Break
				},
			},
		},
	})
	require.NoError(t, err)

	_, err = NewSession(def).RunContinue(map[ProcessID]any{0: "carried-over"})
	require.NoError(t, err)
	assert.Equal(t, "carried-over", seen)
}
