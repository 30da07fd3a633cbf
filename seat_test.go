package wlrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCapabilitiesDropsDisallowedBits(t *testing.T) {
	allowed := SeatCapabilityPointer
	hostCaps := uint32(SeatCapabilityPointer | SeatCapabilityKeyboard | SeatCapabilityTouch)
	assert.Equal(t, uint32(SeatCapabilityPointer), maskCapabilities(hostCaps, allowed))
}

func TestMaskCapabilitiesNeverForwardsTouch(t *testing.T) {
	allowed := SeatCapabilityPointer | SeatCapabilityKeyboard | SeatCapabilityTouch
	hostCaps := uint32(SeatCapabilityTouch)
	assert.Equal(t, uint32(0), maskCapabilities(hostCaps, allowed))
}

func TestMaskCapabilitiesPassesThroughAllowedBits(t *testing.T) {
	allowed := SeatCapabilityPointer | SeatCapabilityKeyboard
	hostCaps := uint32(SeatCapabilityPointer | SeatCapabilityKeyboard)
	assert.Equal(t, hostCaps, maskCapabilities(hostCaps, allowed))
}

func TestConfigWithDefaultsFillsZeroCapabilities(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, SeatCapabilityPointer|SeatCapabilityKeyboard, cfg.Capabilities)
}

func TestConfigWithDefaultsPreservesExplicitCapabilities(t *testing.T) {
	cfg := Config{Capabilities: SeatCapabilityKeyboard}.WithDefaults()
	assert.Equal(t, SeatCapabilityKeyboard, cfg.Capabilities)
}
