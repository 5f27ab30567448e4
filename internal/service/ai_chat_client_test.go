package service

import (
	"net/http"
	"testing"
	"time"
)

func TestAIChatClientDefaultTimeout(t *testing.T) {
	t.Parallel()

	client := newAIChatClient(AISettings{OpenAIAPIKey: "sk-test"})

	httpClient, ok := client.http.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client, got %T", client.http)
	}

	expectTimeout := 60 * time.Second
	if httpClient.Timeout != expectTimeout {
		t.Fatalf("default timeout should be %v, got %v", expectTimeout, httpClient.Timeout)
	}

	client.SetHTTPClient(nil)
	httpClient, ok = client.http.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client after reset, got %T", client.http)
	}
	if httpClient.Timeout != expectTimeout {
		t.Fatalf("reset timeout should be %v, got %v", expectTimeout, httpClient.Timeout)
	}
}

func TestAIChatClientConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings AISettings
		expected bool
	}{
		{name: "openai key", settings: AISettings{OpenAIAPIKey: "sk"}, expected: true},
		{name: "deepseek without key", settings: AISettings{Provider: AIProviderDeepSeek, OpenAIAPIKey: "sk"}, expected: false},
		{name: "deepseek key", settings: AISettings{Provider: "deepseek", DeepSeekAPIKey: "ds"}, expected: true},
		{name: "blank key", settings: AISettings{OpenAIAPIKey: "  "}, expected: false},
	}

	for _, tt := range tests {
		if got := newAIChatClient(tt.settings).configured(); got != tt.expected {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}
