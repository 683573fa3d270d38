package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazumasakawahara/inheritance-calculator/internal/config"
)

// MockLLM returns canned responses in order and records prompts.
type MockLLM struct {
	Responses []string
	Err       error
	Prompts   []string
	calls     int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if m.calls < len(m.Responses) {
		r := m.Responses[m.calls]
		m.calls++
		return r, nil
	}
	return "", errors.New("no more responses")
}

func answer(t *testing.T, a *Agent, input string) string {
	t.Helper()
	msg, err := a.Process(context.Background(), input)
	require.NoError(t, err)
	return msg
}

func TestStartAsksForDecedentName(t *testing.T) {
	a := NewAgent(&MockLLM{}, config.InterviewPrompts{})

	msg := a.Start()

	assert.Equal(t, StateDecedent, a.CurrentState())
	assert.Contains(t, msg, "被相続人")
}

func TestFullInterviewProducesFamily(t *testing.T) {
	mock := &MockLLM{Responses: []string{
		`{"name": "山田花子", "alive": true, "death_date": ""}`,
		`{"name": "山田一郎", "alive": true, "death_date": ""}`,
	}}
	a := NewAgent(mock, config.InterviewPrompts{})
	a.Start()

	answer(t, a, "山田太郎")
	answer(t, a, "2023-10-03")
	answer(t, a, "昭和25年4月1日")
	answer(t, a, "はい")       // spouse exists
	answer(t, a, "妻の山田花子です") // extracted via LLM
	answer(t, a, "はい")       // children exist
	answer(t, a, "1")
	answer(t, a, "長男の山田一郎です")
	answer(t, a, "いいえ") // no parents
	answer(t, a, "いいえ") // no siblings
	answer(t, a, "いいえ") // no renunciation
	final := answer(t, a, "はい")

	require.True(t, a.Completed())
	assert.Contains(t, final, "計算を開始")

	family, err := a.Family()
	require.NoError(t, err)
	assert.Equal(t, "山田太郎", family.Decedent.Name)
	assert.False(t, family.Decedent.Alive)
	require.NotNil(t, family.Decedent.DeathDate)
	assert.Equal(t, time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC), *family.Decedent.DeathDate)
	require.NotNil(t, family.Decedent.BirthDate)
	assert.Equal(t, 1950, family.Decedent.BirthDate.Year())
	require.Len(t, family.Spouses, 1)
	assert.Equal(t, "山田花子", family.Spouses[0].Name)
	require.Len(t, family.Children, 1)
	assert.Equal(t, "山田一郎", family.Children[0].Name)
}

func TestExtractPersonFallsBackWhenLLMFails(t *testing.T) {
	a := NewAgent(&MockLLM{Err: errors.New("connection refused")}, config.InterviewPrompts{})
	a.Start()

	answer(t, a, "山田太郎")
	answer(t, a, "2023-10-03")
	answer(t, a, "不明")
	answer(t, a, "はい")
	answer(t, a, "山田花子")

	require.Len(t, a.spouses, 1)
	assert.Equal(t, "山田花子", a.spouses[0].Name)
	assert.True(t, a.spouses[0].Alive)
}

func TestRejectsUnparsableDeathDate(t *testing.T) {
	a := NewAgent(&MockLLM{}, config.InterviewPrompts{})
	a.Start()

	answer(t, a, "山田太郎")
	retry := answer(t, a, "去年の秋ごろ")

	assert.Contains(t, retry, "日付の形式")
	assert.Equal(t, StateDecedent, a.CurrentState())
}

func TestRenouncedNameSharesIdentityWithSibling(t *testing.T) {
	mock := &MockLLM{Err: errors.New("offline")}
	a := NewAgent(mock, config.InterviewPrompts{})
	a.Start()

	answer(t, a, "山田太郎")
	answer(t, a, "R5.10.3")
	answer(t, a, "不明")
	answer(t, a, "いいえ") // no spouse
	answer(t, a, "いいえ") // no children
	answer(t, a, "いいえ") // no parents
	answer(t, a, "はい")  // siblings
	answer(t, a, "山田次郎、山田三郎")
	answer(t, a, "はい") // renunciation
	answer(t, a, "山田三郎")
	answer(t, a, "はい")

	require.True(t, a.Completed())
	family, err := a.Family()
	require.NoError(t, err)
	require.Len(t, family.Siblings, 2)
	require.Len(t, family.Renounced, 1)
	assert.Same(t, family.Siblings[1], family.Renounced[0])
}

func TestAmbiguousYesNoConsultsLLM(t *testing.T) {
	mock := &MockLLM{Responses: []string{`{"answer": false}`}}
	a := NewAgent(mock, config.InterviewPrompts{})
	a.Start()

	answer(t, a, "山田太郎")
	answer(t, a, "2023-10-03")
	answer(t, a, "不明")
	answer(t, a, "ずっと独身でした") // not a keyword, goes to the LLM

	assert.Equal(t, StateChildren, a.CurrentState())
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "ずっと独身でした")
}

func TestFamilyBeforeCompletionFails(t *testing.T) {
	a := NewAgent(&MockLLM{}, config.InterviewPrompts{})
	a.Start()

	_, err := a.Family()
	assert.Error(t, err)
}
