package validate

// resolveRules computes the effective rule set for one validation pass.
//
// The base set is deep-copied, then each block's condition is evaluated
// against the record's current field values and the chosen rule set
// (then on match, else otherwise) is concatenated in, field by field.
// Later blocks land after earlier ones, a block's rules land after the
// base rules for the same field, and duplicate rule specifications are
// kept: the engine evaluates each occurrence.
//
// Neither base nor any block's stored rule set is mutated; the result is
// owned by the caller and discarded after the pass.
func resolveRules(base RuleSet, blocks []ConditionalBlock, lookup FieldLookup, env map[string]any) (RuleSet, error) {
	effective := base.Clone()
	for _, block := range blocks {
		matched, err := block.cond.eval(lookup, env)
		if err != nil {
			return nil, err
		}
		chosen := block.then
		if !matched {
			chosen = block.els
		}
		effective.mergeConcat(chosen)
	}
	return effective, nil
}
