package indicators

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"SignalForge/internal/domain/models"
)

// priceBand is LONG above ref*(1+band), SHORT below ref*(1-band).
func priceBand(price, ref, band float64) models.Direction {
	switch {
	case isNaN(price, ref):
		return models.Neutral
	case price > ref*(1+band):
		return models.Long
	case price < ref*(1-band):
		return models.Short
	}
	return models.Neutral
}

// ---- VWAP ----

type VWAPConfig struct {
	Band float64
}

func DefaultVWAPConfig() VWAPConfig { return VWAPConfig{Band: 0.01} }

func VWAPConfigFrom(p Params) VWAPConfig {
	return VWAPConfig{Band: p.Float("band", DefaultVWAPConfig().Band)}
}

func (c VWAPConfig) validate() error { return nil }

// NewVWAP anchors the volume-weighted average price at the first bar of the series.
func NewVWAP(cfg VWAPConfig) Indicator { return newIndicator("vwap", KindVWAP, &vwap{cfg: cfg}) }

type vwap struct{ cfg VWAPConfig }

func (v *vwap) minBars() int { return 1 }

func (v *vwap) calculate(s *models.Series) output {
	tp := typicalPrice(s.Highs(), s.Lows(), s.Closes())
	vols := s.Volumes()
	values := nanSeries(len(tp))
	var cumPV, cumVol float64
	for i := range tp {
		cumPV += tp[i] * vols[i]
		cumVol += vols[i]
		if cumVol > 0 {
			values[i] = cumPV / cumVol
		}
	}
	return newOutput().add("vwap", values)
}

func (v *vwap) classify(s *models.Series, o output) models.Direction {
	return priceBand(s.Last().Close, o.value("vwap"), v.cfg.Band)
}

// ---- OBV ----

type OBVConfig struct {
	Lookback int
}

func DefaultOBVConfig() OBVConfig { return OBVConfig{Lookback: 10} }

func OBVConfigFrom(p Params) OBVConfig {
	return OBVConfig{Lookback: p.Int("lookback", DefaultOBVConfig().Lookback)}
}

func (c OBVConfig) validate() error { return positive("lookback", c.Lookback) }

// NewOBV signals divergence between on-balance volume and price over the lookback.
func NewOBV(cfg OBVConfig) Indicator { return newIndicator("obv", KindOBV, &obv{cfg: cfg}) }

type obv struct{ cfg OBVConfig }

func (b *obv) minBars() int { return b.cfg.Lookback }

func (b *obv) calculate(s *models.Series) output {
	closes, vols := s.Closes(), s.Volumes()
	values := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		values[i] = values[i-1]
		switch {
		case closes[i] > closes[i-1]:
			values[i] += vols[i]
		case closes[i] < closes[i-1]:
			values[i] -= vols[i]
		}
	}
	return newOutput().add("obv", values)
}

func (b *obv) classify(s *models.Series, o output) models.Direction {
	values, closes := o.get("obv"), s.Closes()
	volTrend := fromEnd(values, 1) - fromEnd(values, b.cfg.Lookback)
	priceTrend := fromEnd(closes, 1) - fromEnd(closes, b.cfg.Lookback)
	switch {
	case isNaN(volTrend, priceTrend):
		return models.Neutral
	case volTrend > 0 && priceTrend <= 0:
		return models.Long
	case volTrend < 0 && priceTrend >= 0:
		return models.Short
	}
	return models.Neutral
}

// ---- Volume Profile ----

type VolumeProfileConfig struct {
	Bins     int
	MaxNodes int
	Band     float64
}

func DefaultVolumeProfileConfig() VolumeProfileConfig {
	return VolumeProfileConfig{Bins: 20, MaxNodes: 5, Band: 0.01}
}

func VolumeProfileConfigFrom(p Params) VolumeProfileConfig {
	d := DefaultVolumeProfileConfig()
	return VolumeProfileConfig{
		Bins:     p.Int("num_bins", d.Bins),
		MaxNodes: p.Int("max_nodes", d.MaxNodes),
		Band:     p.Float("band", d.Band),
	}
}

func (c VolumeProfileConfig) validate() error {
	return firstErr(positive("num_bins", c.Bins), positive("max_nodes", c.MaxNodes))
}

// VolumeNode is a price bin holding more than the average binned volume.
type VolumeNode struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

func NewVolumeProfile(cfg VolumeProfileConfig) Indicator {
	return newIndicator("volume_profile", KindVolumeProfile, &volumeProfile{cfg: cfg})
}

type volumeProfile struct{ cfg VolumeProfileConfig }

func (v *volumeProfile) minBars() int { return 1 }

func (v *volumeProfile) calculate(s *models.Series) output {
	closes, vols := s.Closes(), s.Volumes()
	n := v.cfg.Bins
	edges := floats.Span(make([]float64, n+1), floats.Min(closes), floats.Max(closes))

	profile := make([]float64, n)
	for i, price := range closes {
		profile[binIndex(edges, price)] += vols[i]
	}
	mid := func(b int) float64 { return edges[b] + (edges[b+1]-edges[b])/2 }

	poc := mid(floats.MaxIdx(profile))
	mean := stat.Mean(profile, nil)
	nodes := make([]VolumeNode, 0, n)
	for b, vol := range profile {
		if vol > mean {
			nodes = append(nodes, VolumeNode{Price: mid(b), Volume: vol})
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Volume > nodes[j].Volume })
	if len(nodes) > v.cfg.MaxNodes {
		nodes = nodes[:v.cfg.MaxNodes]
	}

	o := newOutput()
	o.series["profile"] = profile
	o.series["bins"] = edges
	o.values["poc"] = poc
	o.meta = map[string]any{"high_volume_nodes": nodes}
	return o
}

// binIndex counts the edges <= price, minus one, clamped to a valid bin.
func binIndex(edges []float64, price float64) int {
	idx := sort.Search(len(edges), func(i int) bool { return edges[i] > price }) - 1
	return min(max(idx, 0), len(edges)-2)
}

func (v *volumeProfile) classify(s *models.Series, o output) models.Direction {
	if nodes, _ := o.meta["high_volume_nodes"].([]VolumeNode); len(nodes) == 0 {
		return models.Neutral
	}
	return priceBand(s.Last().Close, o.value("poc"), v.cfg.Band)
}
