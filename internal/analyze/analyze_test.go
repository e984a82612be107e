package analyze

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/faults"
	"github.com/sidereal-labs/powertrace/internal/model"
)

type stubClient struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Exchange(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubClient) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func TestAnalyzeEmptySession(t *testing.T) {
	client := &stubClient{response: "should not be seen"}
	sess := engine.NewSession()
	an := NewAnalyzer(client, sess)

	_, err := an.Analyze(context.Background())
	if err == nil {
		t.Fatal("expected precondition error for empty session")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryPrecondition {
		t.Errorf("category = %q, want precondition", got)
	}
	if client.calls() != 0 {
		t.Errorf("AI client invoked %d times for empty session", client.calls())
	}
}

func TestAnalyzeEmptyRun(t *testing.T) {
	client := &stubClient{response: "should not be seen"}
	sess := engine.NewSession()
	eng := engine.New(config.DefaultConfig(), sess)
	eng.RunExternal(nil, model.ModeExternal) // run exists, zero records

	an := NewAnalyzer(client, sess)
	_, err := an.Analyze(context.Background())
	if err == nil {
		t.Fatal("expected precondition error for zero-record run")
	}
	if client.calls() != 0 {
		t.Errorf("AI client invoked %d times", client.calls())
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	client := &stubClient{response: "Power tracks the bit count."}
	sess := engine.NewSession()
	eng := engine.New(config.DefaultConfig(), sess)
	eng.RunExternal([]float64{12, 255}, model.ModeExternal)

	an := NewAnalyzer(client, sess)
	text, err := an.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if text != "Power tracks the bit count." {
		t.Errorf("text = %q", text)
	}

	if client.calls() != 1 {
		t.Fatalf("AI client invoked %d times, want 1", client.calls())
	}
	prompt := client.prompts[0]
	if !strings.Contains(prompt, "12/2/2.40") {
		t.Errorf("prompt missing first triple: %q", prompt)
	}
	if !strings.Contains(prompt, "255/8/9.60") {
		t.Errorf("prompt missing second triple: %q", prompt)
	}
	if !strings.Contains(prompt, "3 sentences") {
		t.Errorf("prompt missing brevity instruction: %q", prompt)
	}
}

func TestAnalyzeDoesNotMutateSession(t *testing.T) {
	client := &stubClient{response: "fine"}
	sess := engine.NewSession()
	eng := engine.New(config.DefaultConfig(), sess)
	run := eng.RunExternal([]float64{1, 2, 3}, model.ModeExternal)

	an := NewAnalyzer(client, sess)
	if _, err := an.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if sess.Current() != run {
		t.Error("analysis must not replace the current run")
	}
	if sess.Runs() != 1 {
		t.Errorf("run counter = %d, want 1", sess.Runs())
	}
	if len(run.Records) != 3 {
		t.Errorf("records mutated: %d", len(run.Records))
	}
}

func TestAnalyzeErrorPassesThrough(t *testing.T) {
	client := &stubClient{err: faults.Transport("down", nil)}
	sess := engine.NewSession()
	eng := engine.New(config.DefaultConfig(), sess)
	eng.RunRandom(3)

	an := NewAnalyzer(client, sess)
	_, err := an.Analyze(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryTransport {
		t.Errorf("category = %q, want transport", got)
	}
}

func TestDigest(t *testing.T) {
	sess := engine.NewSession()
	eng := engine.New(config.DefaultConfig(), sess)
	run := eng.RunExternal([]float64{0, 7, 255}, model.ModeExternal)

	want := "0/0/0.00, 7/3/3.60, 255/8/9.60"
	if got := Digest(run); got != want {
		t.Errorf("Digest() = %q, want %q", got, want)
	}
}
