package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDerailRisk(t *testing.T) {
	tests := []struct {
		safebuf int
		want    DerailRisk
	}{
		{-1, RiskCritical},
		{0, RiskCritical},
		{1, RiskWarning},
		{2, RiskCaution},
		{3, RiskCaution},
		{4, RiskSafe},
		{30, RiskSafe},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, ClassifyDerailRisk(tt.safebuf), "safebuf %d", tt.safebuf)
	}
}

func TestDerailRiskIsUrgent(t *testing.T) {
	assert.True(t, RiskCritical.IsUrgent())
	assert.True(t, RiskWarning.IsUrgent())
	assert.False(t, RiskCaution.IsUrgent())
	assert.False(t, RiskSafe.IsUrgent())
}
