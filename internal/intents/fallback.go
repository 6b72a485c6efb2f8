package intents

import "context"

// fallbackClassifier prefers the trained model and drops to the rule
// classifier whenever the model is unavailable, errors out, or is not
// confident enough.
type fallbackClassifier struct {
	primary   Classifier
	fallback  Classifier
	threshold float64
}

// NewClassifier builds the classifier stack for the given configuration:
// rules only when the remote model is disabled, remote-with-rule-fallback
// otherwise.
func NewClassifier(cfg Config) Classifier {
	rules := NewRuleClassifier()
	if !cfg.Enabled {
		return rules
	}
	return &fallbackClassifier{
		primary:   NewRemoteClassifier(cfg),
		fallback:  rules,
		threshold: cfg.ConfidenceThreshold,
	}
}

func (f *fallbackClassifier) Predict(ctx context.Context, text string) (Intent, float64, error) {
	intent, conf, err := f.primary.Predict(ctx, text)
	if err == nil && conf >= f.threshold {
		return intent, conf, nil
	}
	return f.fallback.Predict(ctx, text)
}
