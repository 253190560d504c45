package activity

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRecordMasksDefaultFields(t *testing.T) {
	record := types.ActivityRecord{
		Data: map[string]any{
			"nonce":  "eyJhbGciOiJIUzI1NiJ9.payload.sig",
			"token":  "abcd1234",
			"secret": "shh",
			"scope":  "user",
		},
	}
	out := SanitizeRecord(DefaultMasker(), record)
	require.NotEqual(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", out.Data["nonce"])
	require.NotEqual(t, "abcd1234", out.Data["token"])
	require.NotEqual(t, "shh", out.Data["secret"])
	require.Equal(t, "user", out.Data["scope"])
	require.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", record.Data["nonce"], "input must not be mutated")
}

func TestSanitizingSink_ForwardsMaskedRecord(t *testing.T) {
	next := NewMemorySink(10)
	stamp := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	sink := NewSanitizingSink(next, WithClock(fixedClock{t: stamp}))

	require.NoError(t, sink.Log(context.Background(), types.ActivityRecord{
		Verb: "notice.dismissed",
		Data: map[string]any{"nonce": "raw-nonce"},
	}))

	records := next.Records()
	require.Len(t, records, 1)
	require.NotEqual(t, uuid.Nil, records[0].ID)
	require.Equal(t, stamp, records[0].OccurredAt)
	require.NotEqual(t, "raw-nonce", records[0].Data["nonce"])

	require.NoError(t, NewSanitizingSink(nil).Log(context.Background(), types.ActivityRecord{}))
}

func TestMemorySink_DropsOldest(t *testing.T) {
	sink := NewMemorySink(2)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, sink.Log(context.Background(), types.ActivityRecord{ObjectID: id}))
	}
	records := sink.Records()
	require.Len(t, records, 2)
	require.Equal(t, "b", records[0].ObjectID)
	require.Equal(t, "c", records[1].ObjectID)
}

func TestLoggerSink_WritesStructuredLine(t *testing.T) {
	logger := &capturingLogger{}
	sink := NewLoggerSink(logger)
	actor := uuid.New()

	require.NoError(t, sink.Log(context.Background(), types.ActivityRecord{
		ActorID:  actor,
		Verb:     "notice.dismissed",
		ObjectID: "welcome",
		Data:     map[string]any{"nonce": "raw-nonce"},
	}))

	require.Equal(t, "notice activity", logger.msg)
	fields := map[string]any{}
	for i := 0; i+1 < len(logger.fields); i += 2 {
		fields[logger.fields[i].(string)] = logger.fields[i+1]
	}
	require.Equal(t, "notice.dismissed", fields["verb"])
	require.Equal(t, "welcome", fields["object_id"])
	require.Equal(t, actor.String(), fields["actor_id"])
	data, ok := fields["data"].(map[string]any)
	require.True(t, ok)
	require.NotEqual(t, "raw-nonce", data["nonce"])
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type capturingLogger struct {
	types.NopLogger
	msg    string
	fields []any
}

func (l *capturingLogger) Info(msg string, fields ...any) {
	l.msg = msg
	l.fields = fields
}
