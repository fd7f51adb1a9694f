package game

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInsufficientPool is returned when a lesson's eligible pool holds fewer
// than two images, making a two-option question impossible.
var ErrInsufficientPool = errors.New("not enough eligible images to generate questions")

// DefaultQuestionCount is the number of questions requested per game.
const DefaultQuestionCount = 20

// Image is the generator's in-memory view of one catalog image. It carries
// only the fields the pairing rules and the client payload need.
type Image struct {
	ID             uuid.UUID
	CategoryID     uuid.UUID
	SubcategoryIDs []uuid.UUID
	Day            int
	URL            string
	AudioURL       string
	Description    string
}

// LessonRef identifies the lesson a pool was assembled for.
type LessonRef struct {
	ID          uuid.UUID
	Title       string
	ContentType string
	Day         int
}

// Option is one of the two images shown for a question.
type Option struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Day         int       `json:"dia"`
}

// Options holds the two positional choices; which side is correct is
// randomized per question.
type Options struct {
	Left  Option `json:"left"`
	Right Option `json:"right"`
}

// Question is one generated audio-matching question. Questions are ephemeral:
// they are built on the fly per request and never persisted.
type Question struct {
	Number         int       `json:"question_number"`
	AudioURL       string    `json:"audio_url"`
	CorrectImageID uuid.UUID `json:"correct_image_id"`
	Day            int       `json:"dia"`
	Options        Options   `json:"options"`
}
