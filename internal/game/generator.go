package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// Generator builds the question set for one game request. It is a pure
// transform over the supplied image pool: no persistence, no I/O.
//
// A Generator is not safe for concurrent use; callers construct one per
// request (or per test) with the randomness source they want. Only the
// sampling policy is contractual, not bit-exact sequences.
type Generator struct {
	rng *rand.Rand
	log *logger.Logger
}

// NewGenerator returns a generator using rng, or a time-seeded source when
// rng is nil.
func NewGenerator(log *logger.Logger, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, log: log}
}

// Generate produces up to count two-option audio-matching questions for the
// lesson from its eligible pool. Fewer than count questions is a normal
// outcome when no valid partner exists for some slots. Pools with fewer than
// two images fail with ErrInsufficientPool.
func (g *Generator) Generate(lesson LessonRef, pool []Image, count int) ([]Question, error) {
	if len(pool) < 2 {
		return nil, ErrInsufficientPool
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}

	switch ParseContentType(lesson.ContentType) {
	case ContentTypeMixed:
		return g.generateMixed(pool, count, lesson.Day), nil
	case ContentTypeSameCategory:
		return g.generateSameCategory(pool, count, lesson.Day), nil
	case ContentTypeCombined:
		return g.generateCombined(pool, count, lesson.Day), nil
	default:
		if g.log != nil {
			g.log.Warn("Unknown content_type, falling back to mixed questions",
				"lesson_id", lesson.ID, "content_type", lesson.ContentType)
		}
		return g.generateMixed(pool, count, lesson.Day), nil
	}
}

// generateMixed draws pairs irrespective of category grouping. Day weighting:
// when the pool has images for the lesson's own day, ceil(count/2) questions
// sample (with replacement) from that bucket and come first in the output;
// the rest sample from the other-days bucket, falling back to the full pool
// when that bucket is empty. The output is deliberately not shuffled so
// current-day material always leads.
func (g *Generator) generateMixed(pool []Image, count, lessonDay int) []Question {
	currentDay, otherDays := splitByDay(pool, lessonDay)

	currentCount := 0
	if len(currentDay) > 0 {
		currentCount = (count + 1) / 2
	}
	otherCount := count - currentCount

	questions := make([]Question, 0, count)

	for i := 0; i < currentCount; i++ {
		correct := currentDay[g.rng.Intn(len(currentDay))]
		if partner, ok := g.pickPartner(correct, pool); ok {
			questions = append(questions, g.formatQuestion(correct, partner, len(questions)+1))
		}
	}

	source := otherDays
	if len(source) == 0 {
		source = pool
	}
	for i := 0; i < otherCount; i++ {
		correct := source[g.rng.Intn(len(source))]
		if partner, ok := g.pickPartner(correct, pool); ok {
			questions = append(questions, g.formatQuestion(correct, partner, len(questions)+1))
		}
	}

	return questions
}

// generateSameCategory builds each pair inside one category, with the same
// day weighting and ordering as mixed mode. A question whose category offers
// no valid partner falls back to the mixed pairing policy over the full
// pool; if the whole pass still comes up short, the set is regenerated in
// mixed mode outright.
func (g *Generator) generateSameCategory(pool []Image, count, lessonDay int) []Question {
	currentDay, otherDays := splitByDay(pool, lessonDay)

	currentGroups := groupByCategory(currentDay)
	otherGroups := groupByCategory(otherDays)
	allGroups := groupByCategory(pool)

	currentCount := 0
	if len(currentGroups) > 0 {
		currentCount = (count + 1) / 2
	}
	otherCount := count - currentCount

	questions := make([]Question, 0, count)

	for i := 0; i < currentCount; i++ {
		g.appendSameCategoryQuestion(&questions, currentGroups, pool)
	}

	source := otherGroups
	if len(source) == 0 {
		source = allGroups
	}
	for i := 0; i < otherCount; i++ {
		g.appendSameCategoryQuestion(&questions, source, pool)
	}

	if len(questions) < count {
		return g.generateMixed(pool, count, lessonDay)
	}
	return questions
}

func (g *Generator) appendSameCategoryQuestion(questions *[]Question, groups []categoryGroup, pool []Image) {
	if len(groups) == 0 {
		return
	}
	group := groups[g.rng.Intn(len(groups))]
	correct := group.images[g.rng.Intn(len(group.images))]

	partner, ok := g.pickPartnerSameCategory(correct, group.images)
	if !ok {
		partner, ok = g.pickPartner(correct, pool)
	}
	if ok {
		*questions = append(*questions, g.formatQuestion(correct, partner, len(*questions)+1))
	}
}

// generateCombined concatenates a mixed half and a same-category half, then
// shuffles the whole set and renumbers it 1..len. Unlike the single-mode
// strategies, the combined output carries no day-bucket ordering.
func (g *Generator) generateCombined(pool []Image, count, lessonDay int) []Question {
	half := count / 2
	questions := g.generateMixed(pool, half, lessonDay)
	questions = append(questions, g.generateSameCategory(pool, count-half, lessonDay)...)

	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	for i := range questions {
		questions[i].Number = i + 1
	}
	return questions
}

func (g *Generator) formatQuestion(correct, incorrect Image, number int) Question {
	left, right := correct, incorrect
	if g.rng.Intn(2) == 0 {
		left, right = incorrect, correct
	}
	return Question{
		Number:         number,
		AudioURL:       correct.AudioURL,
		CorrectImageID: correct.ID,
		Day:            correct.Day,
		Options: Options{
			Left:  option(left),
			Right: option(right),
		},
	}
}

func option(img Image) Option {
	return Option{
		ID:          img.ID,
		URL:         img.URL,
		Description: img.Description,
		Day:         img.Day,
	}
}

func splitByDay(pool []Image, lessonDay int) (currentDay, otherDays []Image) {
	for _, img := range pool {
		if img.Day == lessonDay {
			currentDay = append(currentDay, img)
		} else {
			otherDays = append(otherDays, img)
		}
	}
	return currentDay, otherDays
}

type categoryGroup struct {
	categoryID uuid.UUID
	images     []Image
}

// groupByCategory preserves first-appearance order so that seeded random
// draws are reproducible in tests.
func groupByCategory(images []Image) []categoryGroup {
	index := make(map[uuid.UUID]int)
	var groups []categoryGroup
	for _, img := range images {
		i, ok := index[img.CategoryID]
		if !ok {
			i = len(groups)
			index[img.CategoryID] = i
			groups = append(groups, categoryGroup{categoryID: img.CategoryID})
		}
		groups[i].images = append(groups[i].images, img)
	}
	return groups
}
