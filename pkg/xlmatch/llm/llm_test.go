package llm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// fakeModel replays a canned completion and records the messages it saw.
type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleInputs() []models.InputCell {
	return []models.InputCell{
		{Sheet: "calc", Cell: "B2", Value: 1000, Raw: "1000", Metadata: [2]string{"長さ", "m"}},
		{Sheet: "calc", Cell: "B3", Value: 3.5, Raw: "3.5"},
	}
}

func messageText(m llms.MessageContent) string {
	var s string
	for _, p := range m.Parts {
		if tp, ok := p.(llms.TextContent); ok {
			s += tp.Text
		}
	}
	return s
}

func TestDecodeJSON(t *testing.T) {
	var batch matchBatchWire
	reply := "```json\n{\"results\": [{\"cell\": \"B2\", \"match\": true, \"confidence\": 0.9}]}\n```"
	require.NoError(t, decodeJSON(reply, &batch))
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "B2", batch.Results[0].Cell)
	assert.True(t, batch.Results[0].Match)

	assert.ErrorIs(t, decodeJSON("no object here", &batch), errNoJSON)
}

func TestFormatInputs(t *testing.T) {
	got := FormatInputs(sampleInputs())
	want := "- Cell: B2\n  Value: 1000\n  Hint: 長さ, m\n- Cell: B3\n  Value: 3.5\n  Hint: "
	assert.Equal(t, want, got)
}

func TestBuildDocumentText(t *testing.T) {
	got := BuildDocumentText([]Document{
		{Path: "out/markdown/a.md", Text: "長さ 1,000 m"},
		{Path: "out/markdown/b.md", Text: "幅 3.5 m"},
	})
	want := "### Document #1\nsource_path: out/markdown/a.md\n長さ 1,000 m\n\n" +
		"### Document #2\nsource_path: out/markdown/b.md\n幅 3.5 m\n\n"
	assert.Equal(t, want, got)
}

func TestVerify(t *testing.T) {
	model := &fakeModel{reply: "```json\n" + `{"results": [
		{"cell": "B3", "match": false, "reason": "not found"},
		{"cell": "B2", "match": true, "reason": "length", "matched_text": "1,000", "source_path": "out/markdown/a.md"}
	]}` + "\n```"}
	v := NewVerifier(model, WithLogger(quietLogger()))

	set, err := v.Verify(context.Background(), sampleInputs(), "長さ 1,000 m")
	require.NoError(t, err)
	require.Len(t, set, 2)

	b2 := set["B2"]
	assert.True(t, b2.Match)
	assert.Equal(t, "1,000", b2.Span())
	require.NotNil(t, b2.SourcePath)
	assert.Equal(t, "out/markdown/a.md", *b2.SourcePath)

	b3 := set["B3"]
	assert.False(t, b3.Match)
	assert.Nil(t, b3.MatchedText)

	require.Len(t, model.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Contains(t, messageText(model.messages[2]), "- Cell: B2")
	assert.Contains(t, messageText(model.messages[2]), "長さ 1,000 m")
}

func TestVerifyMalformedResponse(t *testing.T) {
	for _, reply := range []string{
		"I could not decide.",
		`{"results": "none"}`,
		`{"results": [{"cell": "B2", "match": "yes"}]}`,
	} {
		v := NewVerifier(&fakeModel{reply: reply}, WithLogger(quietLogger()))
		set, err := v.Verify(context.Background(), sampleInputs(), "doc")
		require.NoError(t, err, reply)
		require.Len(t, set, 2, reply)
		for _, r := range set {
			assert.False(t, r.Match, reply)
			assert.Contains(t, r.Reason, "unverified", reply)
		}
	}
}

func TestVerifyFillsOmittedAndDropsUnknownCells(t *testing.T) {
	model := &fakeModel{reply: `{"results": [
		{"cell": "Z9", "match": true, "reason": "?", "matched_text": "9"},
		{"cell": "b2", "match": true, "reason": "first", "matched_text": "1000"},
		{"cell": "B2", "match": false, "reason": "second"}
	]}`}
	v := NewVerifier(model, WithLogger(quietLogger()))

	set, err := v.Verify(context.Background(), sampleInputs(), "doc")
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.NotContains(t, set, "Z9")
	assert.Equal(t, "first", set["B2"].Reason)
	assert.False(t, set["B3"].Match)
	assert.Contains(t, set["B3"].Reason, "no result returned")
}

func TestVerifyMatchWithoutSpanIsDowngraded(t *testing.T) {
	model := &fakeModel{reply: `{"results": [
		{"cell": "B2", "match": true, "reason": "looks right", "matched_text": "  "},
		{"cell": "B3", "match": true, "reason": "also", "matched_text": null}
	]}`}
	v := NewVerifier(model, WithLogger(quietLogger()))

	set, err := v.Verify(context.Background(), sampleInputs(), "doc")
	require.NoError(t, err)
	for _, cell := range []string{"B2", "B3"} {
		assert.False(t, set[cell].Match, cell)
		assert.False(t, set[cell].Located(), cell)
		assert.Contains(t, set[cell].Reason, "matched without a source span", cell)
	}
}

func TestVerifyPropagatesModelErrors(t *testing.T) {
	boom := errors.New("connection reset")
	v := NewVerifier(&fakeModel{err: boom}, WithLogger(quietLogger()))

	_, err := v.Verify(context.Background(), sampleInputs(), "doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestVerifyNoInputs(t *testing.T) {
	model := &fakeModel{}
	set, err := NewVerifier(model).Verify(context.Background(), nil, "doc")
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.Nil(t, model.messages)
}

func TestInputExtractor(t *testing.T) {
	model := &fakeModel{reply: `Here you go: {"inputs": [
		{"cell": "B2", "value": 1000, "metadata": ["長さ", "m", "extra"]},
		{"cell": "b3", "value": 3.5, "metadata": []},
		{"cell": "B3", "value": 4},
		{"cell": "not-a-cell", "value": 1},
		{"cell": "C4", "value": null}
	]}`}
	ex := NewInputExtractor(model, quietLogger())

	inputs, err := ex.Extract(context.Background(), "calc", "<table></table>")
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, models.InputCell{Sheet: "calc", Cell: "B2", Value: 1000, Raw: "1000", Metadata: [2]string{"長さ", "m"}}, inputs[0])
	assert.Equal(t, "B3", inputs[1].Cell)
	assert.Equal(t, "3.5", inputs[1].Raw)

	require.Len(t, model.messages, 1)
	assert.Contains(t, messageText(model.messages[0]), "<table></table>")
}

func TestInputExtractorMalformed(t *testing.T) {
	ex := NewInputExtractor(&fakeModel{reply: "no json"}, quietLogger())
	_, err := ex.Extract(context.Background(), "calc", "<table></table>")
	assert.ErrorIs(t, err, errNoJSON)
}

func TestNewModelUnknownProvider(t *testing.T) {
	_, err := NewModel(ProviderConfig{Provider: "nope"})
	assert.Error(t, err)
}
