package neffective

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAggregate_Convention pins the 2r/N² denominator (not 2r/(N(N−1))).
func TestAggregate_Convention(t *testing.T) {
	res := aggregate(4, 3)
	assert.Equal(t, 4, res.N)
	assert.Equal(t, 3.0, res.SumAbsCor)
	assert.InDelta(t, 6.0/16.0, res.MeanAbsPairwiseCor, 1e-15)
	assert.InDelta(t, 4*(1-6.0/16.0)+1, res.Neffective, 1e-15)
}

// TestAggregate_NoClamping passes out-of-range results through.
func TestAggregate_NoClamping(t *testing.T) {
	// r larger than the pair count can only come from non-finite or broken input,
	// but the aggregate must still not clamp.
	res := aggregate(2, 5)
	assert.InDelta(t, 2*(1-10.0/4.0)+1, res.Neffective, 1e-15)
	assert.Less(t, res.Neffective, 1.0)
}

func TestGatherOptions_Defaults(t *testing.T) {
	o := gatherOptions()
	assert.Equal(t, DefaultCheckEvery, o.checkEvery)
	assert.IsType(t, NopProgress{}, o.progress)
	assert.NotNil(t, o.logger)

	o = gatherOptions(WithCheckEvery(7), nil, WithLogger(nil))
	assert.Equal(t, 7, o.checkEvery)
	assert.NotNil(t, o.logger)
}
