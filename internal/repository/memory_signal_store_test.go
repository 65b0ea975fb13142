package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

func TestMemorySignalStore(t *testing.T) {
	st := NewMemorySignalStore(3)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, st.Save(ctx, &models.AnalysisResult{
			ID:        string(rune('a' + i)),
			Symbol:    "XRPUSDT",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, st.Save(ctx, &models.AnalysisResult{ID: "z", Symbol: "BTCUSDT"}))

	recs, err := st.Recent(ctx, "XRPUSDT", 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"e", "d", "c"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})

	recs, err = st.Recent(ctx, "XRPUSDT", 1)
	require.NoError(t, err)
	assert.Equal(t, "e", recs[0].ID)

	recs, err = st.Recent(ctx, "ETHUSDT", 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
