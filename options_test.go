package procmesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSessionOptions_Defaults(t *testing.T) {
	cfg := resolveSessionOptions(nil)
	assert.Nil(t, cfg.logger)
	assert.Nil(t, cfg.warningRates)
}

func TestResolveSessionOptions_AppliesInOrderAndSkipsNil(t *testing.T) {
	logger := NewDefaultLogger(0)
	rates := map[time.Duration]int{time.Second: 5}

	cfg := resolveSessionOptions([]SessionOption{
		nil,
		WithLogger(logger),
		WithWarningRates(rates),
	})

	assert.Equal(t, logger, cfg.logger)
	assert.Equal(t, rates, cfg.warningRates)
}

func TestResolveProgramOptions_AppliesOptions(t *testing.T) {
	logger := NewDefaultLogger(0)
	rates := map[time.Duration]int{time.Minute: 2}

	cfg := resolveProgramOptions([]ProgramOption{
		WithProgramLogger(logger),
		WithProgramWarningRates(rates),
	})

	assert.Equal(t, logger, cfg.logger)
	assert.Equal(t, rates, cfg.warningRates)
}
