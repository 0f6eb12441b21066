package choice

import (
	"context"
	"errors"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

var options = []string{"Cement CP II 50kg", "Cement CP III 50kg", "Cement CP IV 50kg"}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"plain number", "2", 2},
		{"decorated number", "2)", 2},
		{"worded answer", "option 3", 3},
		{"none", "NONE", 0},
		{"lowercase none", "none", 0},
		{"out of range", "7", 0},
		{"zero", "0", 0},
		{"no digits", "the second one", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{reply: tt.reply}
			got := NewInterpreter(p).Interpret(context.Background(), "yes that one", options)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpretPromptListsOptions(t *testing.T) {
	p := &fakeProvider{reply: "1"}
	n := NewInterpreter(p).Interpret(context.Background(), "the first one works", options)
	assert.Equal(t, 1, n)

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "1) Cement CP II 50kg")
	assert.Contains(t, p.prompts[0], "the first one works")
}

func TestInterpretFailsClosed(t *testing.T) {
	p := &fakeProvider{err: errors.New("timeout")}
	assert.Equal(t, 0, NewInterpreter(p).Interpret(context.Background(), "the second", options))

	// degenerate inputs never reach the model
	quiet := &fakeProvider{reply: "1"}
	i := NewInterpreter(quiet)
	assert.Equal(t, 0, i.Interpret(context.Background(), "", options))
	assert.Equal(t, 0, i.Interpret(context.Background(), "the second", nil))
	assert.Empty(t, quiet.prompts)

	var nilInterp *Interpreter
	assert.Equal(t, 0, nilInterp.Interpret(context.Background(), "2", options))
}
