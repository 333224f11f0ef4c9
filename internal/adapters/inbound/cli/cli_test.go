package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testology/psyengine/internal/adapters/inbound/cli"
	"github.com/testology/psyengine/internal/application"
	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/recommend"
)

const (
	definitionsDir = "../../../../configs"
	answersDir     = "../../../../testdata/answers"
)

// run executes the root command with the shared definitions and a
// per-test history file, returning stdout.
func run(t *testing.T, historyPath string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	base := []string{"--definitions", definitionsDir, "--history-path", historyPath, "--log-level", "error"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return buf.String(), err
}

func fixture(name string) string {
	return filepath.Join(answersDir, name)
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "psyengine")
}

func TestScoreCommand_JSON(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "score", "gad-7", fixture("gad7_moderate.json"), "--json")
	require.NoError(t, err)

	var sub application.Submission
	require.NoError(t, json.Unmarshal([]byte(out), &sub))
	require.NotNil(t, sub.Result.TotalScore)
	assert.Equal(t, "GAD7", sub.Result.TestID)
	assert.Equal(t, 12.0, *sub.Result.TotalScore)
	assert.Equal(t, "moderate", sub.Result.Level())
	assert.Equal(t, []string{"PHQ9", "PSS10"}, sub.Result.RecommendedTests)
	assert.Nil(t, sub.Record)
}

func TestScoreCommand_Stdin(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")
	stdin := strings.NewReader(`[{"questionId":1,"value":3},{"questionId":2,"value":3}]`)

	out, err := run(t, hist, stdin, "score", "GAD7", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalScore": 6`)
}

func TestScoreCommand_DefaultTUI(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "score", "PSS10", fixture("pss10_high.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "PSS10")
	assert.Contains(t, out, "36")
	assert.Contains(t, out, "High stress")
	assert.Contains(t, out, "Work Life Balance")
}

func TestScoreCommand_Debug(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "score", "GAD7", fixture("gad7_moderate.json"),
		"--debug", "--questions", fixture("gad7_questions.json"), "--json")
	require.NoError(t, err)

	var sub application.Submission
	require.NoError(t, json.Unmarshal([]byte(out), &sub))
	require.NotNil(t, sub.Debug)
	require.Len(t, sub.Debug.Items, 7)
	assert.Equal(t, "Feeling nervous, anxious, or on edge", sub.Debug.Items[0].Text)
}

func TestScoreCommand_InvalidAnswers(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "score", "GAD7", fixture("invalid.json"))
	assert.Error(t, err)
}

func TestScoreCommand_UnknownTest(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "score", "NoSuchTest", fixture("gad7_moderate.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestScoreCommand_SaveRequiresUser(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "score", "GAD7", fixture("gad7_moderate.json"), "--save")
	assert.ErrorIs(t, err, application.ErrUserRequired)
}

func TestSaveHistoryAndRecommend(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "score", "GAD7", fixture("gad7_moderate.json"), "--save", "--user", "u1", "--json")
	require.NoError(t, err)
	_, err = run(t, hist, nil, "score", "mbti", fixture("mbti_entp.json"), "--save", "--user", "u1", "--json")
	require.NoError(t, err)

	out, err := run(t, hist, nil, "recommend", "--user", "u1", "--json")
	require.NoError(t, err)

	var payload recommend.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Signatures, 1)
	assert.Equal(t, "ENTP", payload.Signatures[0].Code)

	var ids []string
	for _, it := range payload.Items {
		ids = append(ids, it.TestID)
	}
	assert.Equal(t, []string{"PSS10", "RIASEC", "Creativity", "EQ"}, ids)

	out, err = run(t, hist, nil, "history", "--user", "u1", "--json")
	require.NoError(t, err)
	var records []domain.HistoryRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)

	out, err = run(t, hist, nil, "history", "--id", records[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, records[0].TestID)
}

func TestRecommendCommand_EmptyHistory(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "recommend", "--user", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No recommendations right now.")
}

func TestRecommendCommand_RequiresUser(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "recommend")
	assert.Error(t, err)
}

func TestHistoryCommand_NeedsExactlyOneSelector(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "history")
	assert.Error(t, err)
	_, err = run(t, hist, nil, "history", "--user", "u1", "--id", "x")
	assert.Error(t, err)
}

func TestHistoryCommand_UnknownID(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "history", "--id", "missing")
	assert.Error(t, err)
}

func TestTestsCommand(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "tests", "--json")
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Contains(t, ids, "GAD7")
	assert.Contains(t, ids, "LearningStyle")
	assert.Len(t, ids, 19)

	out, err = run(t, hist, nil, "tests", "work-life-balance")
	require.NoError(t, err)
	assert.Contains(t, out, "Work Life Balance")
	assert.Contains(t, out, "recovery")
}

func TestValidateCommand(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	out, err := run(t, hist, nil, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "19 test definitions OK")
}

func TestValidateCommand_ReportsGitStatus(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	plain := copyDefinitions(t)
	out, err := run(t, hist, nil, "validate", plain)
	require.NoError(t, err)
	assert.Contains(t, out, "19 test definitions OK")
	assert.Contains(t, out, "definitions are not under git")

	versioned := copyDefinitions(t)
	_, err = git.PlainInit(versioned, false)
	require.NoError(t, err)
	out, err = run(t, hist, nil, "validate", versioned)
	require.NoError(t, err)
	assert.Contains(t, out, "definitions are versioned in git")
}

func TestValidateCommand_UnknownRecommendedTest(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")
	dir := copyDefinitions(t)
	dangling := `id: Dangling
title: Dangling
scale_min: 1
scale_max: 5
scoring_type: average
subscales:
  - { id: all, label: All, items: [1, 2] }
cutoffs: []
recommendations:
  - recommend_tests: [NoSuchTest]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "dangling.yaml"), []byte(dangling), 0o644))

	_, err := run(t, hist, nil, "validate", dir)
	require.ErrorIs(t, err, application.ErrUnresolvedReference)
	assert.ErrorContains(t, err, "Dangling recommendations[0]: NoSuchTest")
}

func TestValidateCommand_UnknownRuleTest(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")
	dir := copyDefinitions(t)
	rules := "learning:\n  visual:\n    - { test_id: NoSuchTest, message: missing }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signature_rules.yaml"), []byte(rules), 0o644))

	_, err := run(t, hist, nil, "validate", dir)
	require.ErrorIs(t, err, application.ErrUnresolvedReference)
	assert.ErrorContains(t, err, "LearningStyle rule visual: NoSuchTest")
}

// copyDefinitions copies the bundled definitions into a fresh directory.
func copyDefinitions(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "tests"), 0o755))

	files, err := filepath.Glob(filepath.Join(definitionsDir, "tests", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, "tests", filepath.Base(f)), data, 0o644))
	}
	return dst
}

func TestValidateCommand_BadDirectory(t *testing.T) {
	hist := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, hist, nil, "validate", t.TempDir())
	assert.Error(t, err)
}

func TestMCPCommandExists(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetArgs([]string{"mcp", "--help"})
	assert.NoError(t, cmd.Execute())
}

func TestMCPServeCommandExists(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetArgs([]string{"mcp", "serve", "--help"})
	assert.NoError(t, cmd.Execute())
}
