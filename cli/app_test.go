package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), append([]string{"cspace"}, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestSampleCommand(t *testing.T) {
	out, _, err := runApp(t, "sample", "--seed", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "CONFIGURATION")
	test.That(t, out, test.ShouldContainSubstring, "JOINTS (DEG)")
	test.That(t, out, test.ShouldContainSubstring, "false")

	out, _, err = runApp(t, "sample", "--near-target", "--seed", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "MARGIN")
}

func TestDescendCommand(t *testing.T) {
	out, _, err := runApp(t, "descend", "--seed", "5", "--iterations", "20")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "COST")
	test.That(t, out, test.ShouldContainSubstring, "| start ")
	test.That(t, out, test.ShouldContainSubstring, "| final ")
	test.That(t, out, test.ShouldContainSubstring, "ACCEPTED")

	snapshot := filepath.Join(t.TempDir(), "final.png")
	out, _, err = runApp(t, "descend", "--seed", "5", "--iterations", "5", "--snapshot", snapshot)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote snapshot")
	_, err = os.Stat(snapshot)
	test.That(t, err, test.ShouldBeNil)

	_, _, err = runApp(t, "descend", "--start", "0.5")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "exactly two values")
}

func TestSurveyCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "survey.png")
	out, _, err := runApp(t, "survey", "--samples", "40", "--seed", "2", "--output", png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "FREE FRACTION")
	test.That(t, out, test.ShouldContainSubstring, "wrote scatter plots")
	info, err := os.Stat(png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	_, _, err = runApp(t, "survey", "--samples", "10", "--bins", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cspace.json")
	logFile := filepath.Join(dir, "cspace.log")
	err := os.WriteFile(path, []byte(`{"target": {"x": 0.4, "z": 0.2}, "survey_samples": 15}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	out, _, err := runApp(t, "--config", path, "--log-file", logFile, "survey", "--seed", "1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "15")

	_, _, err = runApp(t, "--config", filepath.Join(dir, "missing.json"), "sample")
	test.That(t, err, test.ShouldNotBeNil)

	err = os.WriteFile(path, []byte(`{"multi_start": -2}`), 0o600)
	test.That(t, err, test.ShouldBeNil)
	_, _, err = runApp(t, "--config", path, "sample")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "multi_start")
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, `"near_target_threshold"`)
	test.That(t, out, test.ShouldContainSubstring, `"cspace config"`)
}
