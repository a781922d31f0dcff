// Package planner decides how many files each level produces and the shape
// of every file before it is written.
package planner

import (
	"encoding/hex"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/naming"
)

// IDGenerator produces globally unique file identifiers. Implementations
// must be safe for concurrent use.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator renders random (v4) UUIDs as 32 lowercase hex characters.
type UUIDGenerator struct{}

// NewID returns a fresh identifier.
func (UUIDGenerator) NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// FileSpec is the planned shape and identity of one file.
type FileSpec struct {
	Level     int
	FileID    string
	Width     int
	Height    int
	Timestamp int64 // unix milliseconds
}

// Size is the declared size of the file in bytes.
func (s FileSpec) Size() int64 {
	return int64(s.Width) * int64(s.Height)
}

// Vars returns the template variables describing the file.
func (s FileSpec) Vars() naming.Vars {
	return naming.Vars{
		Level:     s.Level,
		FileID:    s.FileID,
		Width:     s.Width,
		Height:    s.Height,
		Timestamp: s.Timestamp,
	}
}

// Planner samples file counts and shapes. A Planner is not safe for
// concurrent use; every worker owns one.
type Planner struct {
	rng    *rand.Rand
	width  config.Range
	height config.Range
	ids    IDGenerator
	now    func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithIDGenerator replaces the UUID based identifier generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Planner) {
		p.ids = g
	}
}

// WithClock replaces time.Now as timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// New returns a Planner drawing from rng within the given ranges.
func New(rng *rand.Rand, width, height config.Range, opts ...Option) *Planner {
	p := &Planner{
		rng:    rng,
		width:  width,
		height: height,
		ids:    UUIDGenerator{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CountForLevel returns how many files a level yields: exactly one for
// level 0, otherwise a uniform draw from [level, 2*level].
func (p *Planner) CountForLevel(level int) int {
	if level <= 0 {
		return 1
	}
	return level + p.rng.IntN(level+1)
}

// PlanFile samples a new file for level. Nothing is written.
func (p *Planner) PlanFile(level int) FileSpec {
	return FileSpec{
		Level:     level,
		FileID:    p.ids.NewID(),
		Width:     p.sample(p.width),
		Height:    p.sample(p.height),
		Timestamp: p.now().UnixMilli(),
	}
}

func (p *Planner) sample(r config.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	// in uint64 so that a range spanning every int does not overflow
	return r.Min + int(p.rng.Uint64N(uint64(r.Max-r.Min)+1)) //nolint:gosec // bounded by r.Max-r.Min
}
