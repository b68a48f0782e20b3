package integrity

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetOutput(io.Discard)
	return log, hook
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "model")
	writeFile(t, b, "model")

	sa, err := Fingerprint(a)
	require.NoError(t, err)
	sb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Len(t, sa, 64)
	assert.Equal(t, sa, sb)

	writeFile(t, b, "model v2")
	sb, err = Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, sa, sb)

	_, err = Fingerprint(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckerDetectsDrift(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.pmml")
	features := filepath.Join(dir, "features.json")
	writeFile(t, model, "<PMML/>")
	writeFile(t, features, `["amount"]`)

	log, hook := quietLogger()
	c, err := NewChecker(log, model, features)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Loaded(model))
	assert.Len(t, hook.AllEntries(), 2)

	assert.Empty(t, c.Check())

	writeFile(t, model, "<PMML version=\"4.4\"/>")
	drifts := c.Check()
	require.Len(t, drifts, 1)
	assert.Equal(t, model, drifts[0].Path)
	assert.Equal(t, c.Loaded(model), drifts[0].Expected)
	assert.NotEqual(t, drifts[0].Expected, drifts[0].Actual)

	require.NoError(t, os.Remove(features))
	drifts = c.Check()
	require.Len(t, drifts, 2)
	assert.Error(t, drifts[1].Err)
	assert.Empty(t, drifts[1].Actual)
}

func TestCheckerRunWarnsOnce(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.pmml")
	writeFile(t, model, "v1")

	log, hook := quietLogger()
	c, err := NewChecker(log, model)
	require.NoError(t, err)
	hook.Reset()

	c.run()
	assert.Empty(t, hook.AllEntries())

	writeFile(t, model, "v2")
	c.run()
	c.run()
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	writeFile(t, model, "v3")
	c.run()
	assert.Len(t, hook.AllEntries(), 2)
}

func TestNewCheckerMissingArtifact(t *testing.T) {
	log, _ := quietLogger()
	_, err := NewChecker(log, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.pmml")
	writeFile(t, model, "v1")

	log, _ := quietLogger()
	c, err := NewChecker(log, model)
	require.NoError(t, err)

	assert.Error(t, c.Start("every now and then"))

	require.NoError(t, c.Start("@every 1h"))
	c.Stop()
}
