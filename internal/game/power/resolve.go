package power

import "go.uber.org/zap"

// Resolver runs the effect resolution pipeline and logs every applied step.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

var nopResolver = NewResolver(nil)

// Resolve runs the pipeline with a non-logging Resolver.
func Resolve(t Trigger, value int, src Source, owner, target Holder, p Payload) int {
	return nopResolver.Resolve(t, value, src, owner, target, p)
}

// Resolve folds value through every power listening to t.
//
// Powers are collected from owner, or from target when t.Side() is
// SideTarget, ordered by ActiveSet.Matching, and applied in turn: each Affect
// receives the previous output, and side effects on owner or target are
// visible to the powers that follow.
//
// Precondition: owner and target must be non-nil.
// Postcondition: Returns value unchanged when no power listens to t.
func (r *Resolver) Resolve(t Trigger, value int, src Source, owner, target Holder, p Payload) int {
	side := owner
	if t.Side() == SideTarget {
		side = target
	}
	if p == nil {
		p = NoPayload{}
	}
	for _, pw := range side.Powers().Matching(t) {
		out := pw.Affect(value, src, owner, target, p)
		r.logger.Debug("power applied",
			zap.Stringer("trigger", t),
			zap.Stringer("source", src),
			zap.String("power", pw.Name()),
			zap.Int("priority", pw.Priority()),
			zap.Int("in", value),
			zap.Int("out", out),
		)
		value = out
	}
	return value
}
