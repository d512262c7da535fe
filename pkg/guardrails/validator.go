package guardrails

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// ValidationIssue is one match of one rule.
type ValidationIssue struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Line    int    `json:"line"`             // 1-based
	Column  *int   `json:"column,omitempty"` // 0-based, unset at the start of a line
	Fix     string `json:"fix,omitempty"`
}

// ValidationResult groups issues by the severity of the rule that produced them.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Errors      []ValidationIssue `json:"errors"`
	Warnings    []ValidationIssue `json:"warnings"`
	Suggestions []ValidationIssue `json:"suggestions"`
}

// Validator applies a rule set to source text.
//
// A Validator is safe for concurrent use. Patterns are compiled on the first
// call; a pattern that fails to compile makes every call return a
// *RuleConfigurationError.
type Validator struct {
	rules  []Rule
	engine Engine

	once     sync.Once
	matchers []Matcher
	err      error
}

// Option configures a Validator.
type Option func(*Validator)

// WithEngine replaces the default RegexpEngine.
func WithEngine(e Engine) Option {
	return func(v *Validator) {
		if e != nil {
			v.engine = e
		}
	}
}

// NewValidator creates a validator over rules. A nil rules slice selects DefaultRules().
func NewValidator(rules []Rule, opts ...Option) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	v := &Validator{
		rules:  append([]Rule(nil), rules...),
		engine: RegexpEngine{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rules returns a copy of the validator's rule set.
func (v *Validator) Rules() []Rule {
	return append([]Rule(nil), v.rules...)
}

// RulesByCategory returns the rules in one category.
func (v *Validator) RulesByCategory(category string) []Rule {
	return FilterByCategory(v.rules, category)
}

func (v *Validator) compile() {
	v.matchers = make([]Matcher, len(v.rules))
	for i, r := range v.rules {
		m, err := v.engine.Compile(r.Pattern)
		if err != nil {
			v.err = &RuleConfigurationError{RuleID: r.ID, Pattern: r.Pattern, Err: err}
			v.matchers = nil
			return
		}
		v.matchers[i] = m
	}
}

// Validate runs every applicable rule over text. component, when non-empty,
// skips rules scoped to other components.
func (v *Validator) Validate(text, component string) (ValidationResult, error) {
	v.once.Do(v.compile)
	if v.err != nil {
		return ValidationResult{}, v.err
	}

	result := ValidationResult{
		Errors:      make([]ValidationIssue, 0),
		Warnings:    make([]ValidationIssue, 0),
		Suggestions: make([]ValidationIssue, 0),
	}

	subject := text
	if n, ok := v.engine.(SourceNormalizer); ok {
		subject = n.Normalize(text)
	}

	for i, rule := range v.rules {
		if !rule.AppliesTo(component) {
			continue
		}
		for _, span := range v.matchers[i].FindAll(subject) {
			line, col := position(text, span.Start)
			issue := ValidationIssue{
				Rule:    rule.ID,
				Message: rule.Message,
				Line:    line,
				Fix:     rule.Fix,
			}
			if col > 0 {
				issue.Column = &col
			}

			switch rule.Severity {
			case SeverityError:
				result.Errors = append(result.Errors, issue)
			case SeverityWarning:
				result.Warnings = append(result.Warnings, issue)
			default:
				result.Suggestions = append(result.Suggestions, issue)
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// position returns the 1-based line and the 0-based rune column of offset.
func position(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:])
}
