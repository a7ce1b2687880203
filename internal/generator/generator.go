package generator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

// TextGenerator is the text-to-text model capability used by the generative
// strategies: produce free text from a prompt, bounded by maxWords.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxWords int) (string, error)
}

// QuestionAnswerer is the extractive QA capability: return an answer that is
// a verbatim span of the given context.
type QuestionAnswerer interface {
	ExtractAnswer(ctx context.Context, question, context string) (string, error)
}

// Generator turns normalized document text into quiz questions. The
// rule-based strategies (mcq, true_false, fill_blank) need only the tagger;
// the generative ones (objective, subjective) additionally need the model
// capabilities, which may be nil when no model is configured.
type Generator struct {
	tagger  nlp.Tagger
	textGen TextGenerator
	qa      QuestionAnswerer

	mu     sync.Mutex
	seedFn func() int64
}

func New(tagger nlp.Tagger, textGen TextGenerator, qa QuestionAnswerer) *Generator {
	return &Generator{
		tagger:  tagger,
		textGen: textGen,
		qa:      qa,
		seedFn:  func() int64 { return time.Now().UnixNano() },
	}
}

// HasModel reports whether the generative capabilities are configured. The
// objective and subjective strategies require them.
func (g *Generator) HasModel() bool {
	return g.textGen != nil && g.qa != nil
}

// SetSeed pins the random source so generation becomes deterministic for a
// fixed input. Tests use this; production keeps the default entropy seed.
func (g *Generator) SetSeed(seed int64) {
	g.mu.Lock()
	g.seedFn = func() int64 { return seed }
	g.mu.Unlock()
}

func (g *Generator) newRand() *rand.Rand {
	g.mu.Lock()
	seed := g.seedFn()
	g.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}

// GenerateQuiz runs the full pipeline: normalize, segment and tag, then
// apply the strategy for quizType. Model calls happen here, before any store
// interaction, so the quiz store lock is never held during inference.
func (g *Generator) GenerateQuiz(ctx context.Context, text string, numQuestions int, quizType models.QuizType) ([]models.Question, error) {
	normalized, err := nlp.Normalize(text)
	if err != nil {
		return nil, err
	}

	sentences, err := g.tagger.SegmentAndTag(ctx, normalized)
	if err != nil {
		return nil, err
	}

	rng := g.newRand()

	switch quizType {
	case models.QuizTypeMCQ:
		return g.generateMCQ(sentences, numQuestions, rng)
	case models.QuizTypeTrueFalse:
		return g.generateTrueFalse(sentences, numQuestions, rng)
	case models.QuizTypeFillBlank:
		return g.generateFillBlank(sentences, numQuestions, rng)
	case models.QuizTypeObjective:
		return g.generateObjective(ctx, sentences, numQuestions, rng)
	case models.QuizTypeSubjective:
		return g.generateSubjective(ctx, sentences, numQuestions, rng)
	default:
		return nil, &UnsupportedQuizTypeError{Type: quizType}
	}
}
