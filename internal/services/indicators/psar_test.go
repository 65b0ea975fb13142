package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

func psarSeries(hlc [][3]float64) *models.Series {
	bars := make([]models.Bar, len(hlc))
	for i, v := range hlc {
		bars[i] = models.Bar{High: v[0], Low: v[1], Open: v[2], Close: v[2], Volume: 1}
	}
	return models.NewSeries("XRPUSDT", "1H", bars)
}

func TestParabolicSARFold(t *testing.T) {
	s := psarSeries([][3]float64{
		{10, 8, 9},
		{11, 9, 10},
		{12, 10, 11},
		{11.5, 9.5, 10},
	})
	res, err := NewParabolicSAR(DefaultParabolicSARConfig()).Compute(s)
	require.NoError(t, err)

	sar := res.Series["sar"]
	assert.InDeltaSlice(t, []float64{8, 8, 8.06, 8.2176}, sar, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 11, 12, 9.5}, res.Series["extreme_point"], 1e-9)
	assert.InDeltaSlice(t, []float64{0.02, 0.02, 0.04, 0.06}, res.Series["acceleration"], 1e-9)
	assert.Equal(t, models.Long, res.Signal)
}

func TestParabolicSARAccelerationCapped(t *testing.T) {
	res, err := NewParabolicSAR(DefaultParabolicSARConfig()).Compute(seriesFromCloses(linear(40, 100, 1), 0.5, 1))
	require.NoError(t, err)
	for _, a := range res.Series["acceleration"] {
		assert.LessOrEqual(t, a, 0.2+1e-12)
	}
	assert.InDelta(t, 0.2, res.Value("acceleration"), 1e-12)
	assert.Equal(t, models.Long, res.Signal)
}

func TestParabolicSARSingleBar(t *testing.T) {
	res, err := NewParabolicSAR(DefaultParabolicSARConfig()).Compute(psarSeries([][3]float64{{10, 8, 9}}))
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.Value("sar"))
	assert.Equal(t, models.Neutral, res.Signal)
}
