package intents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleClassifier_Keywords(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"Hola, ¿qué tal?", IntentGreet},
		{"buenas tardes", IntentGreet},
		{"adiós y gracias por todo", IntentGoodbye},
		{"mil gracias", IntentThanks},
		{"necesito ayuda", IntentHelp},
		{"quiero una app de pagos", IntentOther},
	}
	c := NewRuleClassifier()
	for _, tc := range cases {
		intent, conf, err := c.Predict(context.Background(), tc.text)
		require.NoError(t, err)
		assert.Equal(t, tc.want, intent, "text %q", tc.text)
		if tc.want != IntentOther {
			assert.Equal(t, 1.0, conf)
		}
	}
}

func TestRuleClassifier_AccentInsensitive(t *testing.T) {
	c := NewRuleClassifier()

	a, _, _ := c.Predict(context.Background(), "Adiós")
	b, _, _ := c.Predict(context.Background(), "adios")

	assert.Equal(t, IntentGoodbye, a)
	assert.Equal(t, a, b)
}

func TestNewClassifier_DisabledUsesRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	c := NewClassifier(cfg)

	_, ok := c.(*RuleClassifier)
	assert.True(t, ok)
}

func TestRemoteClassifier_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hola", req.Text)
		json.NewEncoder(w).Encode(predictResponse{Intent: "greet", Confidence: 0.93})
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	c := NewRemoteClassifier(cfg)

	intent, conf, err := c.Predict(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, IntentGreet, intent)
	assert.Equal(t, 0.93, conf)
}

func TestFallback_LowConfidenceDropsToRules(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{Intent: "goodbye", Confidence: 0.30})
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = srv.URL
	c := NewClassifier(cfg)

	intent, conf, err := c.Predict(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, IntentGreet, intent, "rules should win when the model is unsure")
	assert.Equal(t, 1.0, conf)
}

func TestFallback_RemoteErrorDropsToRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = "http://127.0.0.1:1"
	cfg.TimeoutMs = 200
	cfg.MaxRetries = 0
	c := NewClassifier(cfg)

	intent, _, err := c.Predict(context.Background(), "gracias")
	require.NoError(t, err)
	assert.Equal(t, IntentThanks, intent)
}
