package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestHTTPClientGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hola"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret", "", zap.NewNop())
	out, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hola" {
		t.Fatalf("expected hola, got %q", out)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != defaultOpenAIModel || len(gotReq.Messages) != 2 {
		t.Fatalf("unexpected request %+v", gotReq)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != SystemInstruction {
		t.Fatalf("expected system instruction first, got %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Content != "prompt" {
		t.Fatalf("unexpected user message %+v", gotReq.Messages[1])
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k", "m", nil)
	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on 429")
	}
}

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	return f.resp, f.err
}

func TestGeminiClientConcatenatesParts(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: " primera "}, nil, {Text: ""}, {Text: "segunda"}}},
		}},
	}}
	g := &GeminiClient{models: fake, model: "gemini-test"}

	out, err := g.Generate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "primera\nsegunda" {
		t.Fatalf("unexpected output %q", out)
	}
	if fake.model != "gemini-test" {
		t.Fatalf("unexpected model %q", fake.model)
	}
	if fake.config == nil || fake.config.SystemInstruction == nil {
		t.Fatal("expected system instruction to be set")
	}
	if got := fake.config.SystemInstruction.Parts[0].Text; got != SystemInstruction {
		t.Fatalf("unexpected system instruction %q", got)
	}
}

func TestGeminiClientErrors(t *testing.T) {
	g := &GeminiClient{models: &fakeModels{err: errors.New("quota")}, model: "m"}
	if _, err := g.Generate(context.Background(), "hola"); err == nil {
		t.Fatal("expected api error")
	}

	g = &GeminiClient{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: "m"}
	if _, err := g.Generate(context.Background(), "hola"); err == nil {
		t.Fatal("expected empty response error")
	}

	if _, err := g.Generate(context.Background(), "   "); err == nil {
		t.Fatal("expected empty prompt error")
	}
}

func TestNewFromProvider(t *testing.T) {
	c, err := NewFromProvider(context.Background(), "", "", "", "", zap.NewNop())
	if err != nil || c != nil {
		t.Fatalf("empty provider must disable the client, got %v %v", c, err)
	}
	c, err = NewFromProvider(context.Background(), "OpenAI", "k", "", "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*HTTPClient); !ok {
		t.Fatalf("expected HTTPClient, got %T", c)
	}
	if _, err := NewFromProvider(context.Background(), "otro", "k", "", "", zap.NewNop()); err == nil {
		t.Fatal("expected unknown provider error")
	}
	if _, err := NewFromProvider(context.Background(), ProviderGemini, "", "", "", zap.NewNop()); err == nil {
		t.Fatal("expected missing api key error")
	}
}
