// Package solardata reads solar production series exported by the NREL
// solar integration datasets.
package solardata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/pvsizing/core/model"
)

const (
	timeColumn  = "LocalTime"
	powerColumn = "Power(MW)"
	// TimeLayout accepts both padded and unpadded month, day and hour.
	TimeLayout = "1/2/06 15:04"
)

// ErrNoCapacity is returned when the array capacity cannot be derived from a file name.
var ErrNoCapacity = errors.New("no capacity token in file name")

var capacityRe = regexp.MustCompile(`(\d+)MW`)

// CapacityFromName extracts the nameplate capacity in MW from a file name
// such as "Actual_34.15_-117.25_2006_DPV_10MW_5_Min.csv".
func CapacityFromName(name string) (float64, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	m := capacityRe.FindStringSubmatch(stem)
	if m == nil {
		return 0, fmt.Errorf("%s: %w", name, ErrNoCapacity)
	}
	c, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if c == 0 {
		return 0, fmt.Errorf("%s: zero capacity: %w", name, ErrNoCapacity)
	}
	return c, nil
}

// Load reads the series at path and normalizes it by the capacity encoded
// in the file name.
func Load(path string) (model.Series, error) {
	c, err := CapacityFromName(path)
	if err != nil {
		return nil, err
	}
	return LoadWithCapacity(path, c)
}

// LoadWithCapacity reads the series at path and normalizes it by capacityMW.
func LoadWithCapacity(path string, capacityMW float64) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f, capacityMW)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes CSV rows from r. Power values are divided by capacityMW so
// the series describes a 1 MW array.
func Parse(r io.Reader, capacityMW float64) (model.Series, error) {
	if capacityMW <= 0 {
		return nil, fmt.Errorf("capacity must be > 0, got %v", capacityMW)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, model.ErrEmptySeries
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	ti, pi := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case timeColumn:
			ti = i
		case powerColumn:
			pi = i
		}
	}
	if ti < 0 || pi < 0 {
		return nil, fmt.Errorf("missing %q or %q column", timeColumn, powerColumn)
	}

	var out model.Series
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		ts, err := time.Parse(TimeLayout, rec[ti])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p, err := strconv.ParseFloat(rec[pi], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, model.Sample{Time: ts, PowerMW: p / capacityMW})
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
