package game

import "github.com/google/uuid"

// CanPair decides whether candidate may appear as the incorrect option next
// to correct. The rules exist to rule out ambiguity: the audio cue must match
// exactly one of the two displayed images.
//
// Rules, in priority order, for two distinct images:
//  1. Different categories: always pairable.
//  2. Same category, both tagged, subcategory sets intersect: not pairable
//     (the audio could describe either option).
//  3. Same category, both tagged, sets disjoint: pairable ("red book" vs
//     "blue book").
//  4. Same category, correct tagged, candidate untagged: pairable (specific
//     audio vs generic image).
//  5. Same category, correct untagged, candidate tagged: not pairable
//     (generic audio vs specific image is ambiguous the other way around).
//  6. Same category, neither tagged: not pairable (two generic images of one
//     category make a useless question).
func CanPair(correct, candidate Image) bool {
	if correct.ID == candidate.ID {
		return false
	}
	if correct.CategoryID != candidate.CategoryID {
		return true
	}

	correctTagged := len(correct.SubcategoryIDs) > 0
	candidateTagged := len(candidate.SubcategoryIDs) > 0

	switch {
	case correctTagged && candidateTagged:
		return !subcategoriesIntersect(correct.SubcategoryIDs, candidate.SubcategoryIDs)
	case correctTagged && !candidateTagged:
		return true
	default:
		// Untagged correct against a tagged candidate, or two untagged
		// images, both read as ambiguous.
		return false
	}
}

func subcategoriesIntersect(a, b []uuid.UUID) bool {
	set := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// pickPartner selects the incorrect option for correct from pool. Preference
// order: a valid different-category partner, then a valid same-category
// partner, then (last resort) any image with a different id. The escape
// hatch keeps generation moving when categories are sparse. Returns false
// when the pool holds no other image at all.
func (g *Generator) pickPartner(correct Image, pool []Image) (Image, bool) {
	var valid, differentCategory []Image
	for _, candidate := range pool {
		if !CanPair(correct, candidate) {
			continue
		}
		valid = append(valid, candidate)
		if candidate.CategoryID != correct.CategoryID {
			differentCategory = append(differentCategory, candidate)
		}
	}

	if len(differentCategory) > 0 {
		return differentCategory[g.rng.Intn(len(differentCategory))], true
	}
	if len(valid) > 0 {
		return valid[g.rng.Intn(len(valid))], true
	}

	var anyOther []Image
	for _, candidate := range pool {
		if candidate.ID != correct.ID {
			anyOther = append(anyOther, candidate)
		}
	}
	if len(anyOther) > 0 {
		return anyOther[g.rng.Intn(len(anyOther))], true
	}
	return Image{}, false
}

// pickPartnerSameCategory selects a valid partner from a single category's
// images, without the different-category preference or the escape hatch.
func (g *Generator) pickPartnerSameCategory(correct Image, categoryPool []Image) (Image, bool) {
	var valid []Image
	for _, candidate := range categoryPool {
		if CanPair(correct, candidate) {
			valid = append(valid, candidate)
		}
	}
	if len(valid) == 0 {
		return Image{}, false
	}
	return valid[g.rng.Intn(len(valid))], true
}
