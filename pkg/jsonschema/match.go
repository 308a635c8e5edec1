package jsonschema

// NoSelection is the sentinel index meaning no alternative applies.
const NoSelection = -1

// ClosestMatchingOption picks the alternative that best matches data. The
// preferred index breaks ties when it is among the best-scoring candidates;
// otherwise the lowest tied index wins. When a discriminator field is named
// and the data pins it to exactly one alternative, that alternative is
// selected unconditionally. If nothing scores above zero the result is
// NoSelection.
func ClosestMatchingOption(data any, options []map[string]any, preferred int, discriminatorField string) int {
	if len(options) == 0 {
		return NoSelection
	}

	if idx, ok := discriminatorMatch(data, options, discriminatorField); ok {
		return idx
	}

	best := 0
	candidates := make([]int, 0, len(options))
	for idx, option := range options {
		score := optionScore(data, option)
		switch {
		case score > best:
			best = score
			candidates = candidates[:0]
			candidates = append(candidates, idx)
		case score == best && score > 0:
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) == 0 {
		return NoSelection
	}
	if containsInt(candidates, preferred) {
		return preferred
	}
	return candidates[0]
}

// discriminatorMatch resolves the discriminator override: when the data
// carries a value for the discriminator field and exactly one alternative pins
// that field to the same literal, the match is unconditional.
func discriminatorMatch(data any, options []map[string]any, field string) (int, bool) {
	if field == "" {
		return 0, false
	}
	dataMap, ok := data.(map[string]any)
	if !ok {
		return 0, false
	}
	value, ok := dataMap[field]
	if !ok {
		return 0, false
	}

	matched := NoSelection
	for idx, option := range options {
		prop, ok := properties(option)[field]
		if !ok {
			continue
		}
		pinned, ok := pinnedLiteral(prop)
		if !ok || !literalEqual(value, pinned) {
			continue
		}
		if matched != NoSelection {
			// Ambiguous: more than one alternative pins the same literal,
			// fall back to structural scoring.
			return 0, false
		}
		matched = idx
	}
	if matched == NoSelection {
		return 0, false
	}
	return matched, true
}

// optionScore measures structural compatibility between data and one
// alternative. Const agreement outweighs mere type compatibility, and const
// disagreement actively penalizes the alternative.
func optionScore(data any, option map[string]any) int {
	if option == nil {
		return 0
	}

	declared := schemaType(option)
	dataMap, isMap := data.(map[string]any)
	if !isMap {
		if data == nil {
			return 0
		}
		score := 0
		if typeMatches(data, declared) && declared != "" {
			score++
		}
		if constValue, ok := option["const"]; ok {
			if literalEqual(data, constValue) {
				score += 2
			} else {
				score -= 2
			}
		}
		return score
	}

	if declared != "" && declared != "object" {
		return 0
	}

	score := 0
	props := properties(option)
	for name, prop := range props {
		value, present := dataMap[name]
		if !present {
			continue
		}
		if pinned, ok := prop["const"]; ok {
			if literalEqual(value, pinned) {
				score += 2
			} else {
				score -= 2
			}
			continue
		}
		if typeMatches(value, schemaType(prop)) {
			score++
		} else {
			score--
		}
	}
	for _, name := range requiredList(option) {
		if _, present := dataMap[name]; present {
			score++
		}
	}
	return score
}

func containsInt(list []int, value int) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
