package guardrails

import "regexp"

// Span is a half-open byte range [Start, End) of a match in the validated text.
type Span struct {
	Start int
	End   int
}

// Matcher finds every non-overlapping match of one compiled rule pattern.
type Matcher interface {
	FindAll(text string) []Span
}

// Engine compiles rule patterns into matchers. Swapping the engine changes how
// patterns are matched without touching the Rule schema.
type Engine interface {
	Compile(pattern string) (Matcher, error)
}

// SourceNormalizer is implemented by engines that rewrite the input once per
// validation call before any rule runs. The returned text must keep every byte
// offset of the original so diagnostics can be positioned against it.
type SourceNormalizer interface {
	Normalize(text string) string
}

// RegexpEngine matches patterns as RE2 regular expressions over the raw text.
type RegexpEngine struct{}

// Compile implements Engine.
func (RegexpEngine) Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return regexpMatcher{re: re}, nil
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) FindAll(text string) []Span {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}
