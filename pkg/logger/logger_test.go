package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_ServiceFieldOnEveryLine(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Service: "petvax-api", Output: &buf})

	log.Info().Msg("booted")
	if !strings.Contains(buf.String(), `"service":"petvax-api"`) {
		t.Fatalf("service field missing from output: %s", buf.String())
	}
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "chatty", Output: &buf})

	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", log.GetLevel())
	}

	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line emitted at info level: %s", buf.String())
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	log := Init(Options{Level: "debug", Output: &second})

	log.Info().Msg("routed")
	if first.Len() == 0 {
		t.Fatalf("second Init replaced the singleton")
	}
	if second.Len() != 0 {
		t.Fatalf("second Init's options took effect")
	}
}

func TestReset_AllowsRebuild(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	Reset()

	var rebuilt bytes.Buffer
	log := Init(Options{Level: "info", Service: "petvax-console", Output: &rebuilt})
	log.Info().Msg("again")

	if !strings.Contains(rebuilt.String(), `"service":"petvax-console"`) {
		t.Fatalf("rebuild after Reset did not apply new options: %s", rebuilt.String())
	}
}
