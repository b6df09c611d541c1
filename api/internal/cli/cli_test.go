package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-coach/api/internal/config"
	"speech-coach/api/internal/speech"
	"speech-coach/api/internal/speech/types"
)

type scriptedProvider struct {
	keys  []string
	mimes []string
	reply string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(_ context.Context, key string, in speech.Prompt) (string, error) {
	p.keys = append(p.keys, key)
	p.mimes = append(p.mimes, in.MIMEType)
	return p.reply, nil
}

func run(t *testing.T, p speech.Provider, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd(&app{
		provider: func(*config.Config) speech.Provider { return p },
		stderr:   &logs,
	})
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	for _, k := range []string{"GEMINI_API_KEYS", "GEMINI_MODEL", "PORT", "TELEGRAM_BOT_TOKEN", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("GEMINI_API_KEY", "k1,k2")
	return dir
}

func TestAnalyze_JSON(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "talk.bin")
	require.NoError(t, os.WriteFile(file, []byte("not really a video"), 0o644))

	p := &scriptedProvider{reply: `{"score":64,"overall":"fine","strengths":["s"],"improvements":["i"],"detailedFeedback":"d"}`}
	out, err := run(t, p, "analyze", "--json", "--profile", "general", file)
	require.NoError(t, err)

	var res types.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 64, res.Score)
	assert.Equal(t, []types.PronunciationError{}, res.PronunciationErrors)
	assert.Equal(t, []string{"k1"}, p.keys)
	assert.Equal(t, []string{types.DefaultMIMEType}, p.mimes)
}

func TestAnalyze_Text(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "talk.ogg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	p := &scriptedProvider{reply: "plain words"}
	out, err := run(t, p, "analyze", "--mime", "audio/ogg", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 75/100")
	assert.Equal(t, []string{"audio/ogg"}, p.mimes)
}

func TestAnalyze_Errors(t *testing.T) {
	isolate(t)
	_, err := run(t, &scriptedProvider{}, "analyze")
	assert.Error(t, err)

	_, err = run(t, &scriptedProvider{}, "analyze", "missing.mp4")
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	isolate(t)
	out, err := run(t, &scriptedProvider{}, "profiles")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "general"))
	assert.True(t, strings.HasPrefix(lines[2], "vietnamese"))
	assert.True(t, strings.HasSuffix(lines[2], "*"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LogConfig{Level: "WARN"}, &buf)
	require.NoError(t, err)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(config.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func TestSniffMIME(t *testing.T) {
	mp4 := append([]byte{0, 0, 0, 0x18}, []byte("ftypmp42\x00\x00\x00\x00mp42isom")...)
	assert.Equal(t, "video/mp4", sniffMIME(mp4))
	ogg := append([]byte("OggS\x00"), make([]byte, 23)...)
	ogg = append(ogg, []byte("OpusHead\x01\x02\x00\x00")...)
	assert.Equal(t, "audio/ogg", sniffMIME(ogg))
	assert.Equal(t, types.DefaultMIMEType, sniffMIME([]byte("OggS\x00 bare container")))
	assert.Equal(t, types.DefaultMIMEType, sniffMIME([]byte("hello")))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
