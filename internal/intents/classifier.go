// Package intents classifies short conversational messages (greetings,
// farewells, help requests) ahead of the heavier command parsing. A trained
// remote model can be plugged in; the rule classifier always works standalone.
package intents

import (
	"context"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// Intent is a coarse conversational label.
type Intent string

const (
	IntentGreet   Intent = "greet"
	IntentGoodbye Intent = "goodbye"
	IntentThanks  Intent = "thanks"
	IntentHelp    Intent = "help"
	IntentOther   Intent = "other"
)

// Classifier predicts the intent of a message with a confidence in [0,1].
type Classifier interface {
	Predict(ctx context.Context, text string) (Intent, float64, error)
}

// intentKeywords maps each intent to its trigger tokens, checked in order.
var intentKeywords = []struct {
	intent Intent
	tokens []string
}{
	{IntentHelp, []string{"ayuda", "que puedes hacer", "como funciona", "help"}},
	{IntentGoodbye, []string{"adios", "hasta luego", "nos vemos", "chao", "bye"}},
	{IntentThanks, []string{"gracias", "mil gracias", "thank", "thanks"}},
	{IntentGreet, []string{"hola", "buenas", "hey", "hello", "que tal"}},
}

// RuleClassifier is the keyword fallback. It never errors.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (c *RuleClassifier) Predict(_ context.Context, text string) (Intent, float64, error) {
	t := domain.Normalize(text)
	for _, ik := range intentKeywords {
		for _, tok := range ik.tokens {
			if strings.Contains(t, tok) {
				return ik.intent, 1.0, nil
			}
		}
	}
	return IntentOther, 0.0, nil
}
