package service

import "testing"

func TestCleanLLMJSONResponse(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"\uFEFF{\"a\":1}":         `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"   ":                     "",
	}
	for in, want := range cases {
		if got := cleanLLMJSONResponse(in); got != want {
			t.Fatalf("clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	in := `Aqui va: {"a": "llave } en string", "b": {"c": 1}} y texto extra {"d":2}`
	want := `{"a": "llave } en string", "b": {"c": 1}}`
	if got := extractFirstJSONObject(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := extractFirstJSONObject(`{"sin cerrar": 1`); got != "" {
		t.Fatalf("expected empty for unbalanced input, got %q", got)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	var out struct {
		Value int `json:"value"`
	}
	if err := decodeLLMJSON("```json\nRespuesta: {\"value\": 3}\n```", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != 3 {
		t.Fatalf("expected 3, got %d", out.Value)
	}
	if err := decodeLLMJSON("no json here", &out); err == nil {
		t.Fatal("expected error")
	}
}
