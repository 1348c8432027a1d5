package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func fakeAPI(t *testing.T, outputText string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		b, _ := json.Marshal(map[string]any{
			"id":     "resp_cli",
			"object": "response",
			"status": "completed",
			"model":  "m",
			"output": []any{map[string]any{
				"type": "message", "id": "msg_cli", "role": "assistant", "status": "completed",
				"content": []any{map[string]any{"type": "output_text", "text": outputText, "annotations": []any{}}},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestBindFlags_Overrides(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	fs := pflag.NewFlagSet("insight-snapshot", pflag.ContinueOnError)
	bindFlags(fs, &cfg)
	err := fs.Parse([]string{
		"--model", "gpt-5",
		"--base-url", "http://localhost:9999/v1/",
		"--api-key", "k",
		"--max-output-tokens", "1200",
		"--word-wrap", "100",
		"-v",
		"--log-file", "insight.log",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-5", cfg.Model)
	assert.Equal(t, "http://localhost:9999/v1/", cfg.BaseURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.EqualValues(t, 1200, cfg.MaxOutputTokens)
	assert.Equal(t, 100, cfg.WordWrap)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "insight.log", cfg.LogFile)
	assert.Equal(t, "k", cfg.credential()())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.Error(t, (Config{}).Validate())
	assert.Error(t, (Config{Model: "m", MaxOutputTokens: -1}).Validate())
	assert.Error(t, (Config{Model: "m", WordWrap: -1}).Validate())
	assert.NoError(t, defaultConfig().Validate())
}

func TestApplyConfigFile_FlagsWin(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "insight.yaml")
	require.NoError(t, os.WriteFile(p, []byte("model: from-file\nbase_url: http://file/v1/\nmax_output_tokens: 900\nword_wrap: 70\n"), 0o644))

	cfg := defaultConfig()
	fs := pflag.NewFlagSet("insight-snapshot", pflag.ContinueOnError)
	bindFlags(fs, &cfg)
	require.NoError(t, fs.Parse([]string{"--config", p, "--model", "from-flag"}))
	require.NoError(t, applyConfigFile(fs, &cfg))

	assert.Equal(t, "from-flag", cfg.Model)
	assert.Equal(t, "http://file/v1/", cfg.BaseURL)
	assert.EqualValues(t, 900, cfg.MaxOutputTokens)
	assert.Equal(t, 70, cfg.WordWrap)
}

func TestApplyConfigFile_BadYAML(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("model: [unterminated"), 0o644))

	cfg := defaultConfig()
	cfg.ConfigFile = p
	assert.Error(t, applyConfigFile(pflag.NewFlagSet("x", pflag.ContinueOnError), &cfg))
}

func TestReadReflection(t *testing.T) {
	t.Parallel()

	got, err := readReflection(nil, "", []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, "first second", got)

	got, err = readReflection(strings.NewReader("from stdin"), "-", nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	p := filepath.Join(t.TempDir(), "r.txt")
	require.NoError(t, os.WriteFile(p, []byte("from file"), 0o644))
	got, err = readReflection(nil, p, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	_, err = readReflection(nil, p, []string{"x"})
	var ue usageError
	assert.True(t, errors.As(err, &ue))

	_, err = readReflection(nil, "", nil)
	assert.True(t, errors.As(err, &ue))
}

func TestDemoCmd_ListsKeys(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "demo")
	require.NoError(t, err)
	for _, key := range insight.DemoKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "Frustrated / High Accountability")
}

func TestDemoCmd_JSON(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "demo", "Conflict", "--json")
	require.NoError(t, err)

	var got insight.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want, _ := insight.Demo(insight.DemoConflict)
	assert.Equal(t, want, got)
}

func TestDemoCmd_PlainMarkdown(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "demo", "Pressure", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "## Reflection Prompts")
	assert.Contains(t, out, "Overwhelmed / Pragmatic")
}

func TestDemoCmd_UnknownKey(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "demo", "Chaos")
	var ue usageError
	require.True(t, errors.As(err, &ue), "err=%v", err)
	assert.Contains(t, err.Error(), "Conflict, Decision, Pressure")
}

func TestAnalyzeCmd_ShortInputMakesNoRequest(t *testing.T) {
	t.Parallel()

	srv, hits := fakeAPI(t, `{}`)
	_, _, err := execute(t, "", "analyze", "--base-url", srv.URL+"/v1/", "--api-key", "k", "too short")
	var ue usageError
	require.True(t, errors.As(err, &ue), "err=%v", err)
	assert.EqualValues(t, 0, hits.Load())
}

func TestAnalyzeCmd_JSONAndOut(t *testing.T) {
	t.Parallel()

	srv, hits := fakeAPI(t, `{"summary":"Scope keeps growing.","themes":["Scope Control","Negotiation","Capacity"],"signal":"Tense / Focused","prompts":["What is fixed?","What can move?"]}`)
	outPath := filepath.Join(t.TempDir(), "snapshot.json")

	stdout, stderr, err := execute(t, "",
		"analyze", "--base-url", srv.URL+"/v1/", "--api-key", "k", "--model", "test-model",
		"--json", "--out", outPath,
		"My manager keeps adding scope to an overcommitted sprint.")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
	assert.Contains(t, stderr, "model=test-model")

	var got insight.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "Tense / Focused", got.Signal)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var saved insight.Result
	require.NoError(t, json.Unmarshal(b, &saved))
	assert.Equal(t, got, saved)

	// A second run refuses to clobber the file before any request.
	_, _, err = execute(t, "",
		"analyze", "--base-url", srv.URL+"/v1/", "--api-key", "k", "--out", outPath,
		"My manager keeps adding scope to an overcommitted sprint.")
	var ue usageError
	require.True(t, errors.As(err, &ue), "err=%v", err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestAnalyzeCmd_ReadsStdin(t *testing.T) {
	t.Parallel()

	srv, _ := fakeAPI(t, `{"summary":"s","themes":["a"],"signal":"Calm / Clear","prompts":["p"]}`)
	stdout, _, err := execute(t, "I finally pushed back on an unrealistic deadline today.",
		"analyze", "--base-url", srv.URL+"/v1/", "--api-key", "k", "--in", "-", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Calm / Clear")
	assert.NotContains(t, stdout, "Potential Risk Note")
}

func TestAnalyzeCmd_MalformedOutputFails(t *testing.T) {
	t.Parallel()

	srv, _ := fakeAPI(t, `{"summary":"s"}`)
	_, _, err := execute(t, "",
		"analyze", "--base-url", srv.URL+"/v1/", "--api-key", "k",
		"A reflection long enough to be submitted.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed insight result")
}
