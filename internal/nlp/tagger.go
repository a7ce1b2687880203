package nlp

import (
	"context"
	"strings"

	"github.com/jdkato/prose/v2"
)

// POS is the symbolic part-of-speech category consumed by the question
// strategies. Strategies must never depend on a concrete tagger's label set
// beyond this mapping, so swapping the underlying model stays safe.
type POS string

const (
	POSNoun      POS = "NOUN"
	POSVerb      POS = "VERB"
	POSAdjective POS = "ADJECTIVE"
	POSAdverb    POS = "ADVERB"
	POSOther     POS = "OTHER"
)

type Token struct {
	Word string `json:"word"`
	POS  POS    `json:"pos"`
}

type Sentence struct {
	Text   string  `json:"sentence"`
	Tokens []Token `json:"tokens"`
}

// Tagger is the linguistic capability the generator consumes: sentence
// segmentation plus per-token part-of-speech tags.
type Tagger interface {
	SegmentAndTag(ctx context.Context, text string) ([]Sentence, error)
}

// ProseTagger backs Tagger with the prose NLP toolkit. Boundaries and tags
// are only stable within one prose version; callers must not rely on
// bit-identical segmentation across upgrades.
type ProseTagger struct{}

func NewProseTagger() *ProseTagger { return &ProseTagger{} }

func (t *ProseTagger) SegmentAndTag(ctx context.Context, text string) ([]Sentence, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return nil, err
	}

	sentences := make([]Sentence, 0, len(doc.Sentences()))
	for _, sent := range doc.Sentences() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sdoc, err := prose.NewDocument(sent.Text,
			prose.WithExtraction(false),
			prose.WithSegmentation(false),
		)
		if err != nil {
			return nil, err
		}

		tokens := make([]Token, 0, len(sdoc.Tokens()))
		for _, tok := range sdoc.Tokens() {
			tokens = append(tokens, Token{Word: tok.Text, POS: MapPennTag(tok.Tag)})
		}
		sentences = append(sentences, Sentence{Text: sent.Text, Tokens: tokens})
	}

	return sentences, nil
}

// MapPennTag folds Penn Treebank tags into the symbolic category set.
func MapPennTag(tag string) POS {
	switch {
	case strings.HasPrefix(tag, "NN"):
		return POSNoun
	case strings.HasPrefix(tag, "VB"):
		return POSVerb
	case strings.HasPrefix(tag, "JJ"):
		return POSAdjective
	case strings.HasPrefix(tag, "RB"):
		return POSAdverb
	}
	return POSOther
}
