package prompt

import (
	"context"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name    string
		pending *Pending
		message string
		want    bool
	}{
		{"yes answers yes_no", &Pending{Text: "q", ExpectedKind: KindYesNo}, "yes", true},
		{"no answers yes_no", &Pending{Text: "q", ExpectedKind: KindYesNo}, "Nope", true},
		{"question does not answer yes_no", &Pending{Text: "q", ExpectedKind: KindYesNo}, "what is cp iii?", false},
		{"number in range", &Pending{Text: "q", ExpectedKind: KindNumberChoice, MaxOption: 3}, "2", true},
		{"number out of range", &Pending{Text: "q", ExpectedKind: KindNumberChoice, MaxOption: 3}, "5", false},
		{"zero rejected", &Pending{Text: "q", ExpectedKind: KindNumberChoice, MaxOption: 3}, "0", false},
		{"text not a choice", &Pending{Text: "q", ExpectedKind: KindNumberChoice, MaxOption: 3}, "the first", false},
		{"bare quantity", &Pending{Text: "q", ExpectedKind: KindQuantity}, "4", true},
		{"quantity with unit", &Pending{Text: "q", ExpectedKind: KindQuantity}, "200kg", true},
		{"quantity bags", &Pending{Text: "q", ExpectedKind: KindQuantity}, "4 bags", true},
		{"sentence is not a quantity", &Pending{Text: "q", ExpectedKind: KindQuantity}, "i want cement", false},
		{"free text accepts anything", &Pending{Text: "q", ExpectedKind: KindFreeText}, "a slab out back", true},
		{"free text rejects empty", &Pending{Text: "q", ExpectedKind: KindFreeText}, "", false},
		{"nil pending", nil, "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfies(tt.pending, tt.message))
		})
	}
}

func TestIsYesIsNo(t *testing.T) {
	assert.True(t, IsYes("yes"))
	assert.True(t, IsYes("Sure!"))
	assert.True(t, IsNo("no"))
	assert.True(t, IsNo("nah"))
	assert.False(t, IsYes("i want cement"))
	assert.False(t, IsNo("i want cement"))
}

func TestLooksLikeInterruption(t *testing.T) {
	assert.True(t, LooksLikeInterruption("what is the difference between cp ii and cp iii?"))
	assert.True(t, LooksLikeInterruption("do you deliver"))
	assert.True(t, LooksLikeInterruption("how much is the fine sand"))
	assert.False(t, LooksLikeInterruption("4 bags"))
	assert.False(t, LooksLikeInterruption("the slab out back"))
}

func TestPendingMapRoundTrip(t *testing.T) {
	p := &Pending{
		Text:         "How many units?",
		ExpectedKind: KindQuantity,
		MaxOption:    4,
		Metadata:     map[string]interface{}{"product_id": "abc"},
	}

	got := FromMap(p.ToMap())
	require.NotNil(t, got)
	assert.Equal(t, p.Text, got.Text)
	assert.Equal(t, p.ExpectedKind, got.ExpectedKind)
	assert.Equal(t, p.MaxOption, got.MaxOption)
	assert.Equal(t, "abc", got.Metadata["product_id"])

	assert.Nil(t, FromMap(nil))
	assert.Nil(t, FromMap("not a map"))
	assert.Nil(t, FromMap(map[string]interface{}{"text": ""}))
}

type fakeSessionStateRepo struct {
	rows map[string]*entity.SessionState
}

func (f *fakeSessionStateRepo) FindOne(_ context.Context, sessionID string) (*entity.SessionState, error) {
	return f.rows[sessionID], nil
}

func (f *fakeSessionStateRepo) Save(_ context.Context, row *entity.SessionState) error {
	f.rows[row.SessionID] = row
	return nil
}

func (f *fakeSessionStateRepo) Delete(_ context.Context, sessionID string) error {
	delete(f.rows, sessionID)
	return nil
}

func newManager() *Manager {
	return NewManager(state.NewStore(&fakeSessionStateRepo{rows: map[string]*entity.SessionState{}}))
}

func TestManagerSetAndClearPending(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	got, err := m.Pending(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &Pending{Text: "Want to add another product?", ExpectedKind: KindYesNo}
	require.NoError(t, m.SetPending(ctx, "s1", p))

	got, err = m.Pending(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Text, got.Text)

	require.NoError(t, m.SetPending(ctx, "s1", nil))
	got, err = m.Pending(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManagerPushPopIsLIFO(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	first := &Pending{Text: "first", ExpectedKind: KindFreeText}
	second := &Pending{Text: "second", ExpectedKind: KindYesNo}
	require.NoError(t, m.Push(ctx, "s1", first))
	require.NoError(t, m.Push(ctx, "s1", second))

	got, err := m.Pop(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Text)

	got, err = m.Pop(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Text)

	got, err = m.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
