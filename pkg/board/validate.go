package board

import "fmt"

// ValidationSeverity indicates whether a finding blocks conversion or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks conversion
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Reference is empty
// for board-level drawings.
type ValidationError struct {
	Reference string
	Index     int // position of the shape within its drawing list, -1 if not shape-specific
	Message   string
	Severity  ValidationSeverity
}

func (e ValidationError) Error() string {
	where := "board"
	if e.Reference != "" {
		where = "footprint " + e.Reference
	}
	if e.Index >= 0 {
		return fmt.Sprintf("[%s] %s shape %d: %s", e.Severity, where, e.Index, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, where, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the board for data the converter cannot interpret
// faithfully. It is read-only.
func Validate(b *Board) ValidationResult {
	var all []ValidationError
	all = append(all, validateReferences(b)...)
	all = append(all, validateShapes("", b.Drawings)...)
	for _, fp := range b.Footprints {
		all = append(all, validateShapes(fp.Reference, fp.Graphics)...)
	}

	var res ValidationResult
	for _, e := range all {
		if e.Severity == SeverityError {
			res.Errors = append(res.Errors, e)
		} else {
			res.Warnings = append(res.Warnings, e)
		}
	}
	return res
}

// validateReferences checks that footprint references are present and unique.
func validateReferences(b *Board) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, fp := range b.Footprints {
		if fp.Reference == "" {
			errs = append(errs, ValidationError{
				Index:    -1,
				Message:  fmt.Sprintf("footprint %d has no reference", i),
				Severity: SeverityWarning,
			})
			continue
		}
		if seen[fp.Reference] {
			errs = append(errs, ValidationError{
				Reference: fp.Reference,
				Index:     -1,
				Message:   "duplicate reference",
				Severity:  SeverityError,
			})
		}
		seen[fp.Reference] = true
	}
	return errs
}

// validateShapes checks per-shape geometric sanity.
func validateShapes(ref string, shapes []Shape) []ValidationError {
	var errs []ValidationError
	add := func(i int, sev ValidationSeverity, format string, args ...any) {
		errs = append(errs, ValidationError{
			Reference: ref,
			Index:     i,
			Message:   fmt.Sprintf(format, args...),
			Severity:  sev,
		})
	}

	for i, s := range shapes {
		switch v := s.(type) {
		case Circle:
			if v.Radius <= 0 {
				add(i, SeverityError, "circle radius is %d, must be positive", v.Radius)
			}
		case Polygon:
			if len(v.Points) < 3 {
				add(i, SeverityError, "polygon has %d vertices, need at least 3", len(v.Points))
			}
		case Segment:
			if v.Start == v.End {
				add(i, SeverityWarning, "segment has zero length")
			}
		case Rect:
			if w, h := v.Size(); w == 0 || h == 0 {
				add(i, SeverityWarning, "rect is degenerate (%dx%d)", w, h)
			}
		case Arc:
			if v.Start == v.Mid || v.Mid == v.End {
				add(i, SeverityWarning, "arc midpoint coincides with an endpoint")
			}
		case Text:
			add(i, SeverityWarning, "text item %q has no outline geometry", v.Value)
		}
	}
	return errs
}
