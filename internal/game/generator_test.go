package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(nil, rand.New(rand.NewSource(seed)))
}

// richPool builds two categories of tagged images spread over three days, so
// every mode can always find a valid partner.
func richPool() []Image {
	return []Image{
		img(catFruit, 1, subRed),
		img(catFruit, 1, subBlue),
		img(catFruit, 2, subBig),
		img(catAnimal, 2, subRed),
		img(catAnimal, 3, subBlue),
		img(catAnimal, 3, subBig),
	}
}

func lessonFor(contentType string, day int) LessonRef {
	return LessonRef{ID: uuid.New(), Title: "test", ContentType: contentType, Day: day}
}

func byID(pool []Image) map[uuid.UUID]Image {
	m := make(map[uuid.UUID]Image, len(pool))
	for _, i := range pool {
		m[i.ID] = i
	}
	return m
}

func TestGenerateInsufficientPool(t *testing.T) {
	g := newTestGenerator(1)
	_, err := g.Generate(lessonFor("combinadas", 1), []Image{img(catFruit, 1)}, 20)
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("want ErrInsufficientPool, got %v", err)
	}
}

func TestGenerateMixedDayBucketOrdering(t *testing.T) {
	pool := richPool()
	lesson := lessonFor("combinadas", 3)

	for seed := int64(0); seed < 20; seed++ {
		g := newTestGenerator(seed)
		questions, err := g.Generate(lesson, pool, 10)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(questions) != 10 {
			t.Fatalf("seed %d: got %d questions, want 10", seed, len(questions))
		}
		// ceil(10/2) current-day questions lead, the rest follow.
		for i, q := range questions {
			if i < 5 && q.Day != 3 {
				t.Fatalf("seed %d: question %d should come from day 3, got day %d", seed, i+1, q.Day)
			}
			if i >= 5 && q.Day == 3 {
				t.Fatalf("seed %d: question %d should come from another day, got day 3", seed, i+1)
			}
			if q.Number != i+1 {
				t.Fatalf("seed %d: question %d numbered %d", seed, i+1, q.Number)
			}
		}
	}
}

func TestGenerateMixedNoCurrentDayImages(t *testing.T) {
	pool := richPool()
	g := newTestGenerator(7)
	questions, err := g.Generate(lessonFor("combinadas", 99), pool, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(questions))
	}
	for _, q := range questions {
		if q.Day == 99 {
			t.Fatal("no image carries day 99")
		}
	}
}

func TestGenerateMixedSamplesWithReplacement(t *testing.T) {
	// Two images, twenty questions: repetition is expected behavior.
	pool := []Image{img(catFruit, 1, subRed), img(catAnimal, 1, subBlue)}
	g := newTestGenerator(11)
	questions, err := g.Generate(lessonFor("combinadas", 1), pool, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 20 {
		t.Fatalf("got %d questions, want 20", len(questions))
	}
}

func TestGenerateQuestionShape(t *testing.T) {
	pool := richPool()
	images := byID(pool)
	g := newTestGenerator(13)
	questions, err := g.Generate(lessonFor("combinadas", 1), pool, 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range questions {
		correct, ok := images[q.CorrectImageID]
		if !ok {
			t.Fatal("correct image not from the pool")
		}
		if q.AudioURL != correct.AudioURL {
			t.Fatal("question audio must be the correct image's audio")
		}
		if q.Options.Left.ID != q.CorrectImageID && q.Options.Right.ID != q.CorrectImageID {
			t.Fatal("one of the two options must be the correct image")
		}
		if q.Options.Left.ID == q.Options.Right.ID {
			t.Fatal("the two options must differ")
		}
	}
}

func TestGenerateCorrectSideIsRandomized(t *testing.T) {
	pool := richPool()
	g := newTestGenerator(17)
	left, right := 0, 0
	for i := 0; i < 10; i++ {
		questions, err := g.Generate(lessonFor("combinadas", 1), pool, 20)
		if err != nil {
			t.Fatal(err)
		}
		for _, q := range questions {
			if q.Options.Left.ID == q.CorrectImageID {
				left++
			} else {
				right++
			}
		}
	}
	if left == 0 || right == 0 {
		t.Fatalf("correct option never changed sides: left=%d right=%d", left, right)
	}
}

func TestGenerateSameCategoryPairsShareCategory(t *testing.T) {
	// Every category group holds two mutually pairable images, so the
	// same-category strategy never needs its mixed fallback.
	pool := []Image{
		img(catFruit, 1, subRed),
		img(catFruit, 1, subBlue),
		img(catAnimal, 1, subRed),
		img(catAnimal, 1, subBlue),
	}
	images := byID(pool)
	g := newTestGenerator(19)
	questions, err := g.Generate(lessonFor("misma categoria", 1), pool, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(questions))
	}
	for i, q := range questions {
		l, r := images[q.Options.Left.ID], images[q.Options.Right.ID]
		if l.CategoryID != r.CategoryID {
			t.Fatalf("question %d: options from different categories", i+1)
		}
	}
}

func TestGenerateSameCategoryDayOrdering(t *testing.T) {
	pool := richPool()
	lesson := lessonFor("enlace de categorias", 3)
	for seed := int64(0); seed < 20; seed++ {
		g := newTestGenerator(seed)
		questions, err := g.Generate(lesson, pool, 10)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for i, q := range questions {
			if i < 5 && q.Day != 3 {
				t.Fatalf("seed %d: question %d should come from day 3", seed, i+1)
			}
			if i >= 5 && q.Day == 3 {
				t.Fatalf("seed %d: question %d should not come from day 3", seed, i+1)
			}
		}
	}
}

func TestGenerateCombinedRenumbersAfterShuffle(t *testing.T) {
	pool := richPool()
	g := newTestGenerator(23)
	questions, err := g.Generate(lessonFor("mixto", 1), pool, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 20 {
		t.Fatalf("got %d questions, want 20", len(questions))
	}
	for i, q := range questions {
		if q.Number != i+1 {
			t.Fatalf("question at index %d numbered %d, want %d", i, q.Number, i+1)
		}
	}
}

func TestGenerateCombinedShufflesDayBuckets(t *testing.T) {
	// Unlike the single modes, combined output must not keep all current-day
	// questions in front. With 3 day-3 images out of 6 and 20 questions,
	// every seed keeping day-3 questions strictly in front would be a
	// failure of the shuffle.
	pool := richPool()
	shuffledSomewhere := false
	for seed := int64(0); seed < 10 && !shuffledSomewhere; seed++ {
		g := newTestGenerator(seed)
		questions, err := g.Generate(lessonFor("mixto", 3), pool, 20)
		if err != nil {
			t.Fatal(err)
		}
		seenOther := false
		for _, q := range questions {
			if q.Day != 3 {
				seenOther = true
			} else if seenOther {
				shuffledSomewhere = true
				break
			}
		}
	}
	if !shuffledSomewhere {
		t.Fatal("combined output never interleaved day buckets across 10 seeds")
	}
}

func TestGenerateUnknownContentTypeFallsBackToMixed(t *testing.T) {
	pool := richPool()
	g := newTestGenerator(29)
	questions, err := g.Generate(lessonFor("something else", 3), pool, 10)
	if err != nil {
		t.Fatalf("unknown content type must not fail: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(questions))
	}
	for i, q := range questions {
		if i < 5 && q.Day != 3 {
			t.Fatal("fallback must behave exactly like mixed mode")
		}
	}
}
