package validate

///////////////////////////////////////////////////////////////////////////////
// Engine boundary
///////////////////////////////////////////////////////////////////////////////

// Engine executes named validation rules against field values. The package
// ships a default implementation backed by go-playground/validator; a
// custom Engine can be supplied per Validator with WithEngine().
type Engine interface {
	// Session starts one validation pass over a snapshot of field values.
	Session(values map[string]any) EngineSession
}

// EngineSession is one validation pass. Load the effective rules with
// MapFieldRules, execute them with Validate, then read per-field messages
// from Errors after a failing pass.
type EngineSession interface {
	MapFieldRules(rules RuleSet)

	// Validate executes all loaded rules. It returns false when any field
	// failed its rules, and a non-nil error only for engine defects
	// (unknown rule name, malformed rule arguments). Field failures are
	// never reported as errors.
	Validate() (bool, error)

	// Errors returns the messages produced for each failing field, in
	// rule evaluation order. Populated only after a failing Validate.
	Errors() map[string][]string
}

///////////////////////////////////////////////////////////////////////////////
// Global Default
///////////////////////////////////////////////////////////////////////////////

var _defaultEngine Engine

func init() {
	_defaultEngine = NewPlaygroundEngine()
}

// DefaultEngine returns the package-wide engine used by validators that
// were not given one explicitly. It is safe for concurrent sessions.
func DefaultEngine() Engine {
	return _defaultEngine
}
