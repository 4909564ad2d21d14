package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/backsim/market"
	"github.com/ulikunitz/xz"
)

// LoadBars reads daily bars from a CSV file. Files ending in .xz are
// decompressed transparently (historical dumps ship LZMA-compressed).
//
// Expected columns:
//
//	symbol,date,open,high,low,close,volume[,macd,macd_signal,rsi,sma20,sma50]
//
// The indicator columns are optional; missing values load as zero.
func LoadBars(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader %s: %w", path, err)
		}
		r = xr
	}

	return ReadBars(r)
}

// ReadBars parses bars from CSV content. A header row is detected by a
// leading "symbol" cell and skipped.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []market.Bar
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(row) == 0 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "symbol") {
			continue
		}

		b, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
}

func parseRow(row []string) (market.Bar, error) {
	if len(row) < 7 {
		return market.Bar{}, fmt.Errorf("need at least 7 cols symbol,date,o,h,l,c,volume: %v", row)
	}

	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[1]), time.UTC)
	if err != nil {
		return market.Bar{}, fmt.Errorf("bad date %q: %w", row[1], err)
	}

	fields := make([]float64, len(row))
	for i := 2; i < len(row); i++ {
		s := strings.TrimSpace(row[i])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad value %q in col %d: %w", row[i], i, err)
		}
		fields[i] = v
	}

	b := market.Bar{
		Symbol: strings.TrimSpace(row[0]),
		Date:   date,
		Open:   fields[2],
		High:   fields[3],
		Low:    fields[4],
		Close:  fields[5],
		Volume: int64(fields[6]),
	}
	if len(row) > 7 {
		b.MACD = fields[7]
	}
	if len(row) > 8 {
		b.MACDSignal = fields[8]
	}
	if len(row) > 9 {
		b.RSI = fields[9]
	}
	if len(row) > 10 {
		b.SMA20 = fields[10]
	}
	if len(row) > 11 {
		b.SMA50 = fields[11]
	}
	return b, nil
}

// LoadBarFiles loads and concatenates several bar files.
func LoadBarFiles(paths []string) ([]market.Bar, error) {
	var all []market.Bar
	for _, p := range paths {
		bars, err := LoadBars(p)
		if err != nil {
			return nil, err
		}
		all = append(all, bars...)
	}
	return all, nil
}
