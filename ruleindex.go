package validate

// ruleIndex answers, for an object, the rules that match it directly or
// through any of its super-types (§4.2, §4.5). Results are cached per
// object-type string: every Object of a given ObjectType is assumed to
// report the same SuperTypes, since super-types are a property of the
// type, not of any one instance.
//
// Grounded on the teacher's lazily-built, cached derived view over a
// rule collection (rule.go's child-sort cache), adapted here from
// sorting a tree to merging a type-indexed union.
type ruleIndex struct {
	profile Profile
	cache   map[string][]*Rule
}

func newRuleIndex(profile Profile) *ruleIndex {
	return &ruleIndex{profile: profile, cache: make(map[string][]*Rule)}
}

func (ri *ruleIndex) rulesFor(object Object) []*Rule {
	objectType := object.ObjectType()
	if cached, ok := ri.cache[objectType]; ok {
		return cached
	}

	var rules []*Rule
	rules = appendNonNil(rules, ri.profile.RulesByObjectType(objectType))
	for _, superType := range object.SuperTypes() {
		rules = appendNonNil(rules, ri.profile.RulesByObjectType(superType))
	}

	ri.cache[objectType] = rules
	return rules
}

// appendNonNil appends every non-nil rule in from to into, tolerating a
// nil from slice entirely (§4.2: "a null rule returned from the index
// must be silently skipped").
func appendNonNil(into []*Rule, from []*Rule) []*Rule {
	for _, r := range from {
		if r == nil {
			continue
		}
		into = append(into, r)
	}
	return into
}
