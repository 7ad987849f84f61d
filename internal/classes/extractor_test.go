package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddomusic/riyaz/internal/model"
)

var teacher = model.NewTeacher("Vaishnavi")

func msg(date, clock, sender, body string) model.Message {
	return model.Message{Date: date, Time: clock, Sender: sender, Body: body}
}

func TestExtract_OnlyTeacherMessages(t *testing.T) {
	messages := []model.Message{
		msg("2/8/2026", "5:55 PM", "Some Parent", "class cancelled?"),
		msg("2/8/2026", "6:00 PM", "Vaishnavi Kondapalli", "see the kiddos at 3 pm"),
	}

	dates := Extract(messages, teacher)

	require.Len(t, dates, 1)
	assert.Equal(t, model.EventClass, dates[0].Type)
	assert.Equal(t, "2/8/2026", dates[0].Date)
}

func TestExtract_CancellationPrecedence(t *testing.T) {
	messages := []model.Message{
		msg("2/8/2026", "5:55 PM", "Vaishnavi", "class at 3pm today is cancelled"),
	}

	dates := Extract(messages, teacher)

	require.Len(t, dates, 1)
	assert.Equal(t, model.EventCancelled, dates[0].Type)
}

func TestExtract_FirstMentionWins(t *testing.T) {
	messages := []model.Message{
		msg("2/1/2026", "9:00 AM", "Vaishnavi", "class at 2:30 today"),
		msg("2/1/2026", "1:00 PM", "Vaishnavi", "see the kiddos soon, class today"),
	}

	dates := Extract(messages, teacher)

	require.Len(t, dates, 1)
	assert.Contains(t, dates[0].Evidence, "class at 2:30")
	assert.Equal(t, "2:30", dates[0].Time)
}

func TestExtract_CancellationRecordedAlongsideExisting(t *testing.T) {
	messages := []model.Message{
		msg("2/1/2026", "9:00 AM", "Vaishnavi", "class at 2:30 today"),
		msg("2/1/2026", "1:00 PM", "Vaishnavi", "so sorry, no class today"),
	}

	dates := Extract(messages, teacher)

	require.Len(t, dates, 2)
	assert.Equal(t, model.EventClass, dates[0].Type)
	assert.Equal(t, model.EventCancelled, dates[1].Type)
	assert.Equal(t, dates[0].Date, dates[1].Date)
}

func TestExtract_BareCancellationStillRecorded(t *testing.T) {
	messages := []model.Message{
		msg("2/1/2026", "9:00 AM", "Vaishnavi", "no class tomorrow"),
	}

	dates := Extract(messages, teacher)

	require.Len(t, dates, 1)
	assert.Equal(t, model.EventCancelled, dates[0].Type)
}

func TestExtract_Types(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.EventType
	}{
		{"meeting link means online", "join here meet.google.com/abc-defg", model.EventOnline},
		{"facetime means online", "facetime.apple.com/join#whatever see you all today", model.EventOnline},
		{"performance keyword", "performance on saturday, be ready", model.EventPerformance},
		{"havan keyword", "kiddos are singing at the havan", model.EventPerformance},
		{"annual day keyword", "annual day event rehearsal, class today", model.EventPerformance},
		{"rescheduled", "class moved to 14th of March", model.EventRescheduled},
		{"plain class", "class at 2:30 today", model.EventClass},
		{"come by", "come by 2:30 please", model.EventClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := []model.Message{msg("3/1/2026", "9:00 AM", "Vaishnavi", tt.body)}
			dates := Extract(messages, teacher)
			require.Len(t, dates, 1)
			assert.Equal(t, tt.want, dates[0].Type)
		})
	}
}

func TestExtract_IrrelevantTeacherMessagesIgnored(t *testing.T) {
	messages := []model.Message{
		msg("2/1/2026", "9:00 AM", "Vaishnavi", "please practice the sargam daily"),
	}
	assert.Empty(t, Extract(messages, teacher))
}

func TestExtract_EvidenceBounded(t *testing.T) {
	long := "class today " + string(make([]rune, 0))
	for range [30]int{} {
		long += " and more words"
	}
	messages := []model.Message{msg("2/1/2026", "9:00 AM", "Vaishnavi", long)}

	dates := Extract(messages, teacher)
	require.Len(t, dates, 1)
	assert.LessOrEqual(t, len([]rune(dates[0].Evidence)), evidenceRunes+3)
	assert.Contains(t, dates[0].Evidence, "class today")
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"class at 2:30 today", "2:30"},
		{"come by 3 pm", "3 pm"},
		{"see the kiddos", ""},
		{"practice at 12:15", "12:15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTime(tt.text), "text %q", tt.text)
	}
}

func TestSummary(t *testing.T) {
	dates := []model.ClassDate{
		{Type: model.EventClass},
		{Type: model.EventClass},
		{Type: model.EventCancelled},
	}
	got := Summary(dates)
	assert.Equal(t, 2, got[model.EventClass])
	assert.Equal(t, 1, got[model.EventCancelled])
}
