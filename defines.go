package validate

// Rule name constants for the built-in rule table of the default engine.
const (
	RuleRequired      = "required"
	RuleOptional      = "optional"
	RuleEquals        = "equals"
	RuleDifferent     = "different"
	RuleInteger       = "integer"
	RuleNumeric       = "numeric"
	RuleBoolean       = "boolean"
	RuleMin           = "min"
	RuleMax           = "max"
	RuleLength        = "length"
	RuleLengthMin     = "lengthMin"
	RuleLengthMax     = "lengthMax"
	RuleLengthBetween = "lengthBetween"
	RuleIn            = "in"
	RuleNotIn         = "notIn"
	RuleContains      = "contains"
	RuleRegex         = "regex"
	RuleDate          = "date"
	RuleDateFormat    = "dateFormat"
	RuleEmail         = "email"
	RuleURL           = "url"
	RuleIP            = "ip"
	RuleAlpha         = "alpha"
	RuleAlphaNum      = "alphaNum"
	RuleUUID          = "uuid"
)

// Named-argument keys recognized on a RuleSpec.
const (
	// NamedLabel overrides the field name used in generated messages.
	NamedLabel = "label"
)

// Keys of the map form of a rule specification (see NormalizeField) and of
// JSON rule documents (see RuleSetFromJSON and Validator.LoadJSON).
const (
	specKeyRule    = "rule"
	specKeyName    = "name"
	specKeyArgs    = "args"
	specKeyMessage = "message"

	docKeyRules     = "rules"
	docKeyIf        = "if"
	docKeyCondition = "condition"
	docKeyExpr      = "expr"
	docKeyThen      = "then"
	docKeyElse      = "else"
)

// Date layouts accepted by the "date" rule, tried in order.
var _dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}
