// Package lexical implements the tier-0 pattern classifier: precompiled
// per-language phrase tables matched against normalized utterance text.
// It performs no network or model calls and is safe for concurrent use.
package lexical

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

// Pattern classes and the fixed confidence each carries.
const (
	ClassDirect   = "direct"
	ClassIndirect = "indirect"
	ClassDistress = "distress"

	directConfidence   = 0.95
	indirectConfidence = 0.75
	distressConfidence = 0.60
)

const maxIndicators = 5

// Pattern is one entry of the curated phrase table.
type Pattern struct {
	expr     *regexp.Regexp
	class    string
	category string
	severity detection.Severity
	// weight scales the class confidence, for weaker distress phrases.
	weight float64
}

// Table holds the compiled per-language pattern sets plus the shared
// false-positive pre-check list. Immutable after construction.
type Table struct {
	languages      map[string][]Pattern
	falsePositives []*regexp.Regexp
	defaultLang    string
}

// NewTable compiles the builtin pattern database.
func NewTable() *Table {
	t, err := buildTable(builtinPatterns(), builtinFalsePositives(), "en")
	if err != nil {
		// Builtin patterns are compiled in tests; a failure here is a bug.
		panic(fmt.Sprintf("lexical: builtin pattern table invalid: %v", err))
	}
	return t
}

func buildTable(specs map[string][]PatternSpec, fps []string, defaultLang string) (*Table, error) {
	langs := make(map[string][]Pattern, len(specs))
	for lang, entries := range specs {
		compiled := make([]Pattern, 0, len(entries))
		for _, spec := range entries {
			p, err := compilePattern(spec)
			if err != nil {
				return nil, fmt.Errorf("language %s: %w", lang, err)
			}
			compiled = append(compiled, p)
		}
		langs[lang] = compiled
	}

	fpRes := make([]*regexp.Regexp, 0, len(fps))
	for _, raw := range fps {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return nil, fmt.Errorf("false positive pattern %q: %w", raw, err)
		}
		fpRes = append(fpRes, re)
	}

	if defaultLang == "" {
		defaultLang = "en"
	}
	if _, ok := langs[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no patterns", defaultLang)
	}

	return &Table{
		languages:      langs,
		falsePositives: fpRes,
		defaultLang:    defaultLang,
	}, nil
}

func compilePattern(spec PatternSpec) (Pattern, error) {
	class := strings.ToLower(strings.TrimSpace(spec.Class))
	var severity detection.Severity
	switch class {
	case ClassDirect:
		severity = detection.SeverityCritical
	case ClassIndirect:
		severity = detection.SeverityHigh
	case ClassDistress:
		severity = detection.SeverityModerate
	default:
		return Pattern{}, fmt.Errorf("pattern %q has unknown class %q", spec.Pattern, spec.Class)
	}

	re, err := regexp.Compile("(?i)" + spec.Pattern)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", spec.Pattern, err)
	}

	weight := spec.Weight
	if weight <= 0 || weight > 1 {
		weight = 1
	}

	return Pattern{
		expr:     re,
		class:    class,
		category: spec.Category,
		severity: severity,
		weight:   weight,
	}, nil
}

// Normalize case-folds and collapses whitespace the way every tier
// expects its input.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Classify runs the tier-0 match and always returns a result.
func (t *Table) Classify(text, language string) *detection.TierResult {
	start := time.Now()
	normalized := Normalize(text)

	if t.isFalsePositive(normalized) {
		return &detection.TierResult{
			Tier:       detection.TierLexical,
			Severity:   detection.SeverityNone,
			Confidence: directConfidence,
			Indicators: []string{"false_positive"},
			Elapsed:    time.Since(start),
		}
	}

	patterns := t.patternsFor(normalized, language)

	var (
		maxSeverity detection.Severity
		confidence  float64
		indicators  []string
	)
	for _, p := range patterns {
		match := p.expr.FindString(normalized)
		if match == "" {
			continue
		}
		if len(indicators) < maxIndicators {
			indicators = append(indicators, match)
		}
		conf := patternConfidence(p)
		if p.severity > maxSeverity || (p.severity == maxSeverity && conf > confidence) {
			maxSeverity = p.severity
			confidence = conf
		}
	}

	if len(indicators) == 0 {
		return &detection.TierResult{
			Tier:     detection.TierLexical,
			Severity: detection.SeverityNone,
			Elapsed:  time.Since(start),
		}
	}

	return &detection.TierResult{
		Tier:       detection.TierLexical,
		Severity:   maxSeverity,
		Confidence: confidence,
		Indicators: indicators,
		Elapsed:    time.Since(start),
	}
}

func patternConfidence(p Pattern) float64 {
	switch p.class {
	case ClassDirect:
		return directConfidence
	case ClassIndirect:
		return indirectConfidence
	default:
		return distressConfidence * p.weight
	}
}

// patternsFor resolves the language table, sniffing the script when no
// language was declared and falling back to the default language set.
// An unknown language never fails the request.
func (t *Table) patternsFor(normalized, language string) []Pattern {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = sniffScript(normalized)
	}
	if patterns, ok := t.languages[lang]; ok {
		return patterns
	}
	return t.languages[t.defaultLang]
}

func (t *Table) isFalsePositive(normalized string) bool {
	for _, re := range t.falsePositives {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// Languages reports which language tables are loaded.
func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.languages))
	for lang := range t.languages {
		out = append(out, lang)
	}
	return out
}

var (
	cjkRange    = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	arabicRange = regexp.MustCompile(`[\x{0600}-\x{06ff}]`)
	kanaRange   = regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]`)
	hangulRange = regexp.MustCompile(`[\x{ac00}-\x{d7af}]`)
)

// sniffScript is a coarse script-based guess used only when the caller
// declared no language. Kana is checked before the CJK block because
// Japanese text mixes both.
func sniffScript(text string) string {
	switch {
	case kanaRange.MatchString(text):
		return "ja"
	case hangulRange.MatchString(text):
		return "ko"
	case cjkRange.MatchString(text):
		return "zh"
	case arabicRange.MatchString(text):
		return "ar"
	default:
		return "en"
	}
}
