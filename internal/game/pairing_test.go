package game

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

var (
	catFruit  = uuid.New()
	catAnimal = uuid.New()

	subRed  = uuid.New()
	subBlue = uuid.New()
	subBig  = uuid.New()
)

func img(category uuid.UUID, day int, subs ...uuid.UUID) Image {
	id := uuid.New()
	return Image{
		ID:             id,
		CategoryID:     category,
		SubcategoryIDs: subs,
		Day:            day,
		URL:            "images/" + id.String() + ".png",
		AudioURL:       "audio/" + id.String() + ".mp3",
		Description:    id.String(),
	}
}

func TestCanPairSameImage(t *testing.T) {
	a := img(catFruit, 1, subRed)
	if CanPair(a, a) {
		t.Fatal("an image must never pair with itself")
	}
}

func TestCanPairDifferentCategories(t *testing.T) {
	// Rule 1: different categories are always pairable, tags irrelevant.
	cases := []struct{ a, b Image }{
		{img(catFruit, 1), img(catAnimal, 1)},
		{img(catFruit, 1, subRed), img(catAnimal, 1, subRed)},
		{img(catFruit, 1, subRed, subBig), img(catAnimal, 2)},
	}
	for i, tc := range cases {
		if !CanPair(tc.a, tc.b) {
			t.Errorf("case %d: different categories must be pairable", i)
		}
	}
}

func TestCanPairSameCategorySubcategoryRules(t *testing.T) {
	cases := []struct {
		name    string
		correct Image
		cand    Image
		want    bool
	}{
		{"shared subcategory", img(catFruit, 1, subRed), img(catFruit, 1, subRed, subBig), false},
		{"disjoint subcategories", img(catFruit, 1, subRed), img(catFruit, 1, subBlue), true},
		{"correct tagged, candidate generic", img(catFruit, 1, subRed), img(catFruit, 1), true},
		{"correct generic, candidate tagged", img(catFruit, 1), img(catFruit, 1, subRed), false},
		{"both generic", img(catFruit, 1), img(catFruit, 1), false},
	}
	for _, tc := range cases {
		if got := CanPair(tc.correct, tc.cand); got != tc.want {
			t.Errorf("%s: CanPair = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanPairSharedSubcategoryRegardlessOfOthers(t *testing.T) {
	// One shared tag vetoes the pair no matter how many other tags differ.
	correct := img(catFruit, 1, subRed, subBig)
	cand := img(catFruit, 1, subRed, subBlue)
	if CanPair(correct, cand) {
		t.Fatal("images sharing a subcategory must not be pairable")
	}
}

func TestPickPartnerNeverReturnsCorrectImage(t *testing.T) {
	g := NewGenerator(nil, rand.New(rand.NewSource(1)))
	pool := []Image{
		img(catFruit, 1, subRed),
		img(catFruit, 1, subRed), // shares a tag with every fruit: never valid
		img(catAnimal, 1),
	}
	for i := 0; i < 200; i++ {
		correct := pool[i%len(pool)]
		partner, ok := g.pickPartner(correct, pool)
		if !ok {
			t.Fatal("pool of 3 must always yield a partner")
		}
		if partner.ID == correct.ID {
			t.Fatal("pickPartner returned the correct image itself")
		}
	}
}

func TestPickPartnerPrefersDifferentCategory(t *testing.T) {
	g := NewGenerator(nil, rand.New(rand.NewSource(2)))
	correct := img(catFruit, 1, subRed)
	pool := []Image{
		correct,
		img(catFruit, 1, subBlue), // valid same-category partner
		img(catAnimal, 1),         // valid different-category partner
	}
	for i := 0; i < 100; i++ {
		partner, ok := g.pickPartner(correct, pool)
		if !ok {
			t.Fatal("expected a partner")
		}
		if partner.CategoryID == correct.CategoryID {
			t.Fatal("different-category partner must win while one exists")
		}
	}
}

func TestPickPartnerFallsBackToValidSameCategory(t *testing.T) {
	g := NewGenerator(nil, rand.New(rand.NewSource(3)))
	correct := img(catFruit, 1, subRed)
	valid := img(catFruit, 1, subBlue)
	pool := []Image{correct, valid}
	for i := 0; i < 50; i++ {
		partner, ok := g.pickPartner(correct, pool)
		if !ok || partner.ID != valid.ID {
			t.Fatalf("expected the valid same-category partner, got ok=%v id=%v", ok, partner.ID)
		}
	}
}

func TestPickPartnerEscapeHatch(t *testing.T) {
	// No candidate passes CanPair (both generic, same category); the escape
	// hatch still returns some other image so generation can proceed.
	g := NewGenerator(nil, rand.New(rand.NewSource(4)))
	correct := img(catFruit, 1)
	other := img(catFruit, 1)
	partner, ok := g.pickPartner(correct, []Image{correct, other})
	if !ok || partner.ID != other.ID {
		t.Fatalf("escape hatch should return the only other image, got ok=%v", ok)
	}
}

func TestPickPartnerEmptyPool(t *testing.T) {
	g := NewGenerator(nil, rand.New(rand.NewSource(5)))
	correct := img(catFruit, 1)
	if _, ok := g.pickPartner(correct, []Image{correct}); ok {
		t.Fatal("a pool holding only the correct image has no partner")
	}
}
