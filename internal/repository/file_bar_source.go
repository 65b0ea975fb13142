package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	"SignalForge/pkg/util"
)

// FileBarSource reads bar snapshots from <dir>/<SYMBOL>_<tf>.json. Each file is
// a JSON array whose rows are either objects {"t","o","h","l","c","v"} or
// exchange kline arrays [openTime, open, high, low, close, volume, ...]. Prices
// may be numbers or decimal strings. The file is re-read on every call.
type FileBarSource struct {
	dir string
}

var _ domrepo.BarSource = (*FileBarSource)(nil)

func NewFileBarSource(dir string) *FileBarSource { return &FileBarSource{dir: dir} }

func (s *FileBarSource) GetLatestBars(ctx context.Context, symbol string, tf domrepo.Timeframe, n int) (*models.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.find(symbol, tf)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bars: %w", err)
	}
	bars, err := decodeBars(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s %s", symbol, tf)
	}
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return models.NewSeries(symbol, string(tf), bars), nil
}

func (s *FileBarSource) find(symbol string, tf domrepo.Timeframe) (string, error) {
	sym := strings.ToUpper(symbol)
	for _, name := range []string{sym + "_" + string(tf) + ".json", sym + "_" + tf.Interval() + ".json"} {
		p := filepath.Join(s.dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat bars: %w", err)
		}
	}
	return "", fmt.Errorf("no bar file for %s %s in %s", sym, tf, s.dir)
}

// fileBar fields are pointers so an absent or null value is told apart from zero.
type fileBar struct {
	T json.RawMessage  `json:"t"`
	O *decimal.Decimal `json:"o"`
	H *decimal.Decimal `json:"h"`
	L *decimal.Decimal `json:"l"`
	C *decimal.Decimal `json:"c"`
	V *decimal.Decimal `json:"v"`
}

func (fb fileBar) missing() string {
	for _, f := range []struct {
		name string
		v    *decimal.Decimal
	}{{"o", fb.O}, {"h", fb.H}, {"l", fb.L}, {"c", fb.C}, {"v", fb.V}} {
		if f.v == nil {
			return f.name
		}
	}
	return ""
}

func decodeBars(raw []byte) ([]models.Bar, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	bars := make([]models.Bar, 0, len(rows))
	for i, row := range rows {
		var (
			fb  fileBar
			err error
		)
		if r := bytes.TrimSpace(row); len(r) > 0 && r[0] == '[' {
			fb, err = decodeKline(r)
		} else {
			err = json.Unmarshal(row, &fb)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if f := fb.missing(); f != "" {
			return nil, fmt.Errorf("row %d: missing field %q", i, f)
		}
		ts, ok := util.ParseTime(strings.Trim(string(fb.T), `"`))
		if !ok {
			return nil, fmt.Errorf("row %d: bad timestamp %s", i, fb.T)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts,
			Open:      fb.O.InexactFloat64(),
			High:      fb.H.InexactFloat64(),
			Low:       fb.L.InexactFloat64(),
			Close:     fb.C.InexactFloat64(),
			Volume:    fb.V.InexactFloat64(),
		})
	}
	return bars, nil
}

func decodeKline(row []byte) (fileBar, error) {
	var cols []json.RawMessage
	if err := json.Unmarshal(row, &cols); err != nil {
		return fileBar{}, err
	}
	if len(cols) < 6 {
		return fileBar{}, fmt.Errorf("kline needs 6 columns, got %d", len(cols))
	}
	fb := fileBar{T: cols[0]}
	for i, dst := range []**decimal.Decimal{&fb.O, &fb.H, &fb.L, &fb.C, &fb.V} {
		if err := json.Unmarshal(cols[i+1], dst); err != nil {
			return fileBar{}, fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return fb, nil
}
