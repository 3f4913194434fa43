package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn"}, &buf)
	defer Init(NewConfig(), io.Discard)

	Infof("quiet %d", 1)
	Warnf("loud %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "quiet 1")
	assert.Contains(t, out, "loud 2")
	assert.Contains(t, out, "logger_test.go")
}

func TestTagFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", DisabledTags: []string{"Highlight"}}, &buf)
	defer Init(NewConfig(), io.Discard)

	DebugTagf("highlight", "dropped")
	DebugTagf("buffer", "kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "tag=buffer")
}

func TestEnabledTagsDropUntagged(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", EnabledTags: []string{"find"}}, &buf)
	defer Init(NewConfig(), io.Discard)

	Debugf("untagged")
	DebugTagf("find", "tagged")

	assert.NotContains(t, buf.String(), "untagged")
	assert.Contains(t, buf.String(), "tagged")
}

func TestPackageFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", DisabledPackages: []string{"logger"}}, &buf)
	defer Init(NewConfig(), io.Discard)

	Infof("from the logger package")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("Debug").String())
	assert.Equal(t, "WARN", ParseLevel("warning").String())
	assert.Equal(t, "ERROR", ParseLevel("err").String())
	assert.Equal(t, "INFO", ParseLevel("nonsense").String())
}
