package sketch

import (
	"context"
	"log/slog"
)

// DiagnosticKind classifies advisory findings raised during assembly.
type DiagnosticKind int

const (
	// AmbiguousGeometry: the grouping mixes self-closed and chained shapes.
	AmbiguousGeometry DiagnosticKind = iota
	// MultipleFullPrimitives: more than one self-closed shape was unioned.
	MultipleFullPrimitives
	// UnclosedChain: the open edges do not close into loops.
	UnclosedChain
)

func (k DiagnosticKind) String() string {
	switch k {
	case AmbiguousGeometry:
		return "ambiguous-geometry"
	case MultipleFullPrimitives:
		return "multiple-full-primitives"
	case UnclosedChain:
		return "unclosed-chain"
	default:
		return "unknown"
	}
}

// Diagnostic is one advisory finding. Diagnostics never abort assembly.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Index   int // input index of the offending shape, -1 for the whole grouping
}

// Sink receives diagnostics.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// LogSink writes diagnostics as structured warnings.
type LogSink struct {
	Logger *slog.Logger
	Attrs  []slog.Attr // added to every record, e.g. the grouping name
}

func (s LogSink) Report(d Diagnostic) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	attrs := append([]slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.Int("index", d.Index),
	}, s.Attrs...)
	l.LogAttrs(context.Background(), slog.LevelWarn, "sketch: "+d.Message, attrs...)
}

// Recorder keeps every diagnostic it receives.
type Recorder struct {
	Diagnostics []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Has reports whether a diagnostic of kind k was recorded.
func (r *Recorder) Has(k DiagnosticKind) bool {
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Tee fans diagnostics out to several sinks. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}
