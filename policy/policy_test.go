package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Decide(t *testing.T) {
	var nilPolicy *Policy
	assert.True(t, nilPolicy.Decide("take", nil))

	auto := &Policy{Mode: ModeAuto}
	assert.True(t, auto.Decide("take", nil))

	deny := &Policy{Mode: ModeDeny}
	assert.False(t, deny.Decide("take", nil))

	blocked := &Policy{BlockList: []string{"Put"}}
	assert.False(t, blocked.Decide("put", nil))
	assert.True(t, blocked.Decide("take", nil))

	allowOnly := &Policy{AllowList: []string{"take"}}
	assert.True(t, allowOnly.Decide("take", nil))
	assert.False(t, allowOnly.Decide("fork", nil))

	asked := &Policy{Mode: ModeAsk, Ask: func(kind string, payload interface{}, p *Policy) bool {
		return kind == "call"
	}}
	assert.True(t, asked.Decide("call", nil))
	assert.False(t, asked.Decide("fork", nil))

	askWithoutFunc := &Policy{Mode: ModeAsk}
	assert.False(t, askWithoutFunc.Decide("take", nil))
}

func TestPolicy_ConfigRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeAuto, AllowList: []string{"take"}, BlockList: []string{"put"}}
	restored := FromConfig(ToConfig(p))
	assert.Equal(t, p.Mode, restored.Mode)
	assert.Equal(t, p.AllowList, restored.AllowList)
	assert.Equal(t, p.BlockList, restored.BlockList)
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))
}
