// Package preview runs live composition for an editing session.
//
// A session owns one captured source image at a time. Style tweaks from
// the editor arrive faster than renders complete, so renders are
// serialized: one at a time, each stamped with a monotonic sequence
// number so a consumer can discard results that arrive out of date.
package preview

import (
	"context"
	"errors"
	"image"

	"github.com/snapstage/snapstage/internal/compose"
)

// ErrNoSource is returned when a render is requested before any capture
// has been loaded into the session.
var ErrNoSource = errors.New("preview: session has no source image")

// ErrUnknownRatio is returned for a ratio name the resolver does not know.
var ErrUnknownRatio = errors.New("preview: unknown aspect ratio")

// Render is one completed preview frame.
type Render struct {
	Sequence uint64
	Image    *image.RGBA
	Width    int
	Height   int
}

// Session serializes preview renders for a single editing session.
type Session struct {
	mu   chan struct{} // held across a render, capacity 1
	src  image.Image
	seq  uint64
	last *Render
}

// NewSession creates a session. src may be nil until the first capture
// arrives via Replace.
func NewSession(src image.Image) *Session {
	s := &Session{mu: make(chan struct{}, 1)}
	s.mu <- struct{}{}
	s.src = src
	return s
}

// Replace swaps in a newly captured source image. In-flight renders
// finish against the previous capture; the sequence counter keeps
// climbing so stale frames remain detectable.
func (s *Session) Replace(src image.Image) {
	<-s.mu
	s.src = src
	s.mu <- struct{}{}
}

// Render composes the current capture at preview quality. Calls are
// serialized; a caller whose context expires while waiting gets the
// context error instead of a frame.
func (s *Session) Render(ctx context.Context, ratioName string, style compose.Style) (*Render, error) {
	select {
	case <-s.mu:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { s.mu <- struct{}{} }()

	if s.src == nil {
		return nil, ErrNoSource
	}

	bounds := s.src.Bounds()
	ratio, ok := compose.ResolveRatio(ratioName, bounds.Dx(), bounds.Dy())
	if !ok {
		return nil, ErrUnknownRatio
	}

	canvas := compose.NewCanvasSpec(ratio, compose.QualityPreview)
	result := compose.Compose(s.src, canvas, style)

	s.seq++
	r := &Render{
		Sequence: s.seq,
		Image:    result.Image,
		Width:    result.Width,
		Height:   result.Height,
	}
	s.last = r
	return r, nil
}

// Latest returns the most recent completed frame, if any.
func (s *Session) Latest() (*Render, bool) {
	<-s.mu
	defer func() { s.mu <- struct{}{} }()
	if s.last == nil {
		return nil, false
	}
	return s.last, true
}
