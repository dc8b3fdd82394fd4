package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Engine defect errors. These indicate a programming or configuration
// problem in the registered rules, not a data problem, and propagate out
// of Validator.Validate as errors.
var (
	ErrUnknownRule = errors.New("unknown rule")
	ErrBadRuleArgs = errors.New("bad rule arguments")
)

// PlaygroundEngine is the default Engine. Format rules (email, url, ip,
// alpha, alphaNum) delegate to go-playground/validator's tag checks;
// arithmetic, length and membership rules are evaluated natively because
// snapshot values are already typed.
type PlaygroundEngine struct {
	v          *validator.Validate
	rules      map[string]RuleCheck
	rulesMutex sync.RWMutex // Allows concurrent sessions, exclusive Register
}

// RuleCheck evaluates one rule against one field value. It returns
// whether the value passed and, on failure, the message phrase appended
// to the field label. A non-nil error aborts the whole pass.
type RuleCheck func(s *PlaygroundSession, value any, present bool, spec RuleSpec) (bool, string, error)

// NewPlaygroundEngine builds an engine with the built-in rule table.
func NewPlaygroundEngine() *PlaygroundEngine {
	return &PlaygroundEngine{
		v:     validator.New(),
		rules: builtinRuleTable(),
	}
}

// Register adds or replaces a named rule. Extension point for callers
// that need domain rules beyond the built-in table.
func (e *PlaygroundEngine) Register(name string, check RuleCheck) {
	e.rulesMutex.Lock()
	defer e.rulesMutex.Unlock()
	e.rules[name] = check
}

// lookup reads the rule table under the shared lock so sessions can run
// while Register replaces entries.
func (e *PlaygroundEngine) lookup(name string) (RuleCheck, bool) {
	e.rulesMutex.RLock()
	defer e.rulesMutex.RUnlock()
	check, ok := e.rules[name]
	return check, ok
}

func (e *PlaygroundEngine) Session(values map[string]any) EngineSession {
	return &PlaygroundSession{engine: e, values: values}
}

// PlaygroundSession is one validation pass of the default engine.
// Custom RuleChecks receive it to reach sibling field values and the
// underlying tag checks.
type PlaygroundSession struct {
	engine *PlaygroundEngine
	values map[string]any
	rules  RuleSet
	errs   map[string][]string
}

// Value reads a sibling field from the snapshot, for cross-field checks.
func (s *PlaygroundSession) Value(field string) (any, bool) {
	v, ok := s.values[field]
	return v, ok
}

func (s *PlaygroundSession) MapFieldRules(rules RuleSet) {
	s.rules = rules
}

func (s *PlaygroundSession) Validate() (bool, error) {
	s.errs = make(map[string][]string)

	for field, specs := range s.rules {
		value, present := s.values[field]

		for _, spec := range specs {
			// optional short-circuits the rest of the field's list when
			// the value is absent or empty.
			if spec.Name == RuleOptional {
				if !present || isEmptyValue(value) {
					break
				}
				continue
			}

			check, known := s.engine.lookup(spec.Name)
			if !known {
				return false, fmt.Errorf("%w %q for field %q", ErrUnknownRule, spec.Name, field)
			}

			pass, phrase, err := check(s, value, present, spec)
			if err != nil {
				return false, fmt.Errorf("rule %q on field %q: %w", spec.Name, field, err)
			}
			if !pass {
				s.errs[field] = append(s.errs[field], s.message(field, spec, phrase))
			}
		}
	}

	return len(s.errs) == 0, nil
}

func (s *PlaygroundSession) Errors() map[string][]string {
	return s.errs
}

// message renders the failure message for one rule: the spec's custom
// message when set, otherwise "<label> <phrase>" with the label
// defaulting to the field name.
func (s *PlaygroundSession) message(field string, spec RuleSpec, phrase string) string {
	if spec.Message != "" {
		return spec.Message
	}
	label := field
	if l, ok := spec.Named[NamedLabel].(string); ok && l != "" {
		label = l
	}
	return label + " " + phrase
}

// tagPass runs a go-playground/validator tag over the value's string form.
func (s *PlaygroundSession) tagPass(value any, tag string) bool {
	str, ok := toStringValue(value)
	if !ok {
		return false
	}
	return s.engine.v.Var(str, tag) == nil
}

///////////////////////////////////////////////////////////////////////////////
// Built-in rule table
///////////////////////////////////////////////////////////////////////////////

func builtinRuleTable() map[string]RuleCheck {
	return map[string]RuleCheck{
		RuleRequired: func(_ *PlaygroundSession, value any, present bool, _ RuleSpec) (bool, string, error) {
			return present && !isEmptyValue(value), "is required", nil
		},

		RuleEquals: func(s *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			other, err := argString(spec, 0)
			if err != nil {
				return false, "", err
			}
			return looseEqual(value, s.values[other]), fmt.Sprintf("must be the same as %s", other), nil
		},

		RuleDifferent: func(s *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			other, err := argString(spec, 0)
			if err != nil {
				return false, "", err
			}
			return !looseEqual(value, s.values[other]), fmt.Sprintf("must be different from %s", other), nil
		},

		RuleInteger: func(_ *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			_, ok := toInt(value)
			return ok, "must be an integer", nil
		},

		RuleNumeric: func(_ *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			_, ok := toFloat(value)
			return ok, "must be numeric", nil
		},

		RuleBoolean: func(_ *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			switch v := value.(type) {
			case bool:
				return true, "", nil
			case string:
				_, err := strconv.ParseBool(v)
				return err == nil, "must be a boolean", nil
			}
			return false, "must be a boolean", nil
		},

		RuleMin: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			limit, err := argFloat(spec, 0)
			if err != nil {
				return false, "", err
			}
			f, ok := toFloat(value)
			return ok && f >= limit, fmt.Sprintf("must be at least %v", spec.Args[0]), nil
		},

		RuleMax: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			limit, err := argFloat(spec, 0)
			if err != nil {
				return false, "", err
			}
			f, ok := toFloat(value)
			return ok && f <= limit, fmt.Sprintf("must be no more than %v", spec.Args[0]), nil
		},

		RuleLength: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			want, err := argInt(spec, 0)
			if err != nil {
				return false, "", err
			}
			n, ok := runeLength(value)
			return ok && int64(n) == want, fmt.Sprintf("must be %v characters long", spec.Args[0]), nil
		},

		RuleLengthMin: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			min, err := argInt(spec, 0)
			if err != nil {
				return false, "", err
			}
			n, ok := runeLength(value)
			return ok && int64(n) >= min, fmt.Sprintf("must be at least %v characters", spec.Args[0]), nil
		},

		RuleLengthMax: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			max, err := argInt(spec, 0)
			if err != nil {
				return false, "", err
			}
			n, ok := runeLength(value)
			return ok && int64(n) <= max, fmt.Sprintf("must be at most %v characters", spec.Args[0]), nil
		},

		RuleLengthBetween: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			min, err := argInt(spec, 0)
			if err != nil {
				return false, "", err
			}
			max, err := argInt(spec, 1)
			if err != nil {
				return false, "", err
			}
			n, ok := runeLength(value)
			pass := ok && int64(n) >= min && int64(n) <= max
			return pass, fmt.Sprintf("must be between %v and %v characters", spec.Args[0], spec.Args[1]), nil
		},

		RuleIn: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			set, err := argSet(spec)
			if err != nil {
				return false, "", err
			}
			return containsValue(set, value), "contains invalid value", nil
		},

		RuleNotIn: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			set, err := argSet(spec)
			if err != nil {
				return false, "", err
			}
			return !containsValue(set, value), "contains invalid value", nil
		},

		RuleContains: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			sub, err := argString(spec, 0)
			if err != nil {
				return false, "", err
			}
			str, ok := toStringValue(value)
			return ok && strings.Contains(str, sub), fmt.Sprintf("must contain %q", sub), nil
		},

		RuleRegex: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			pattern, err := argString(spec, 0)
			if err != nil {
				return false, "", err
			}
			re, compileErr := regexp.Compile(pattern)
			if compileErr != nil {
				return false, "", fmt.Errorf("%w: regex %q: %v", ErrBadRuleArgs, pattern, compileErr)
			}
			str, ok := toStringValue(value)
			return ok && re.MatchString(str), "contains invalid characters", nil
		},

		RuleDate: func(_ *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			if _, ok := value.(time.Time); ok {
				return true, "", nil
			}
			str, ok := toStringValue(value)
			if !ok {
				return false, "is not a valid date", nil
			}
			for _, layout := range _dateLayouts {
				if _, err := time.Parse(layout, str); err == nil {
					return true, "", nil
				}
			}
			return false, "is not a valid date", nil
		},

		RuleDateFormat: func(_ *PlaygroundSession, value any, _ bool, spec RuleSpec) (bool, string, error) {
			layout, err := argString(spec, 0)
			if err != nil {
				return false, "", err
			}
			str, ok := toStringValue(value)
			if ok {
				_, parseErr := time.Parse(layout, str)
				ok = parseErr == nil
			}
			return ok, fmt.Sprintf("must be a date with format %q", layout), nil
		},

		RuleEmail: func(s *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			return s.tagPass(value, "email"), "is not a valid email address", nil
		},

		RuleURL: func(s *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			return s.tagPass(value, "url"), "is not a valid URL", nil
		},

		RuleIP: func(s *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			return s.tagPass(value, "ip"), "is not a valid IP address", nil
		},

		RuleAlpha: func(s *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			return s.tagPass(value, "alpha"), "must contain only letters", nil
		},

		RuleAlphaNum: func(s *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			return s.tagPass(value, "alphanum"), "must contain only letters and numbers", nil
		},

		RuleUUID: func(_ *PlaygroundSession, value any, _ bool, _ RuleSpec) (bool, string, error) {
			str, ok := toStringValue(value)
			if ok {
				_, parseErr := uuid.Parse(str)
				ok = parseErr == nil
			}
			return ok, "is not a valid UUID", nil
		},
	}
}

///////////////////////////////////////////////////////////////////////////////
// Argument helpers
///////////////////////////////////////////////////////////////////////////////

func argAt(spec RuleSpec, i int) (any, error) {
	if i >= len(spec.Args) {
		return nil, fmt.Errorf("%w: %s needs %d argument(s), got %d", ErrBadRuleArgs, spec.Name, i+1, len(spec.Args))
	}
	return spec.Args[i], nil
}

func argString(spec RuleSpec, i int) (string, error) {
	v, err := argAt(spec, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %d must be a string, got %T", ErrBadRuleArgs, spec.Name, i, v)
	}
	return s, nil
}

func argFloat(spec RuleSpec, i int) (float64, error) {
	v, err := argAt(spec, i)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s argument %d must be numeric, got %T", ErrBadRuleArgs, spec.Name, i, v)
	}
	return f, nil
}

func argInt(spec RuleSpec, i int) (int64, error) {
	v, err := argAt(spec, i)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s argument %d must be an integer, got %T", ErrBadRuleArgs, spec.Name, i, v)
	}
	return n, nil
}

// argSet reads the membership list for in/notIn: either a single list
// argument or the positional arguments themselves.
func argSet(spec RuleSpec) ([]any, error) {
	if len(spec.Args) == 0 {
		return nil, fmt.Errorf("%w: %s needs a membership list", ErrBadRuleArgs, spec.Name)
	}
	if list, ok := spec.Args[0].([]any); ok && len(spec.Args) == 1 {
		return list, nil
	}
	return spec.Args, nil
}

func containsValue(set []any, value any) bool {
	for _, candidate := range set {
		if looseEqual(value, candidate) {
			return true
		}
	}
	return false
}
