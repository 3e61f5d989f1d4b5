package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScout/internal/model"
	"PatternScout/internal/recorder"
	"PatternScout/pkg/logger"
)

type fakeAPI struct {
	sent    []tgbotapi.MessageConfig
	failFor int
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.failFor > 0 {
		f.failFor--
		return tgbotapi.Message{}, errors.New("telegram down")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeAPI) StopReceivingUpdates() { f.stopped = true }

func newTestNotifier(api *fakeAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api, chatID: 42, backoff: time.Millisecond, log: logger.Nop()}
}

func TestSendWithRetry(t *testing.T) {
	api := &fakeAPI{failFor: 2}
	n := newTestNotifier(api)

	require.NoError(t, n.SendWithRetry(context.Background(), "<b>hi</b>", 3))
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(42), api.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, api.sent[0].ParseMode)
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	api := &fakeAPI{failFor: 10}
	err := newTestNotifier(api).SendWithRetry(context.Background(), "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, 7, api.failFor)
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := newTestNotifier(&fakeAPI{failFor: 10})
	n.backoff = time.Hour
	assert.ErrorIs(t, n.SendWithRetry(ctx, "x", 3), context.Canceled)
}

func TestStartPolling(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 3)}
	n := newTestNotifier(api)

	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: " /list ", Chat: &tgbotapi.Chat{ID: 42}}}
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "/list", Chat: &tgbotapi.Chat{ID: 7}}}
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "/quiet", Chat: &tgbotapi.Chat{ID: 42}}}
	close(api.updates)

	var got []string
	n.StartPolling(context.Background(), func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		if cmd == "/quiet" {
			return ""
		}
		return "reply to " + cmd
	})

	assert.Equal(t, []string{"/list", "/quiet"}, got)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "reply to /list", api.sent[0].Text)
	assert.True(t, api.stopped)
}

func TestFormatSignals(t *testing.T) {
	w := model.Watch{Name: "btc-1h", Symbol: "BTCUSDT", Timeframe: "1h"}
	s := model.Series{
		{Timestamp: 1_700_000_000, Close: 65123.456},
		{Timestamp: 1_700_003_600, Close: 65000},
	}
	report := &model.Report{
		BuyEval:  model.EvaluationResult{Total: 3, Hits: 2, Assertiveness: 66.67},
		Insights: &model.Insights{KeyLevels: []float64{64000, 66500.5}},
	}
	signals := []model.Signal{
		{Timestamp: 1_700_000_000, Direction: model.Buy},
		{Timestamp: 1_700_003_600, Direction: model.Sell},
	}

	msg := FormatSignals(w, s, signals, report)
	assert.Contains(t, msg, "<b>btc-1h</b> | BTCUSDT 1h")
	assert.Contains(t, msg, "🟢 BUY   2023-11-14 22:13 UTC @ 65,123.46")
	assert.Contains(t, msg, "🔴 SELL  2023-11-14 23:13 UTC @ 65,000.00")
	assert.Contains(t, msg, "buy: 66.67% of 3")
	assert.Contains(t, msg, "64,000.00 · 66,500.50")
}

func TestFormatWatchList(t *testing.T) {
	assert.Equal(t, "No analyses configured.", FormatWatchList(nil))

	msg := FormatWatchList([]model.Watch{{
		Name: "eth", Symbol: "ETHUSDT", Timeframe: "4h", Timerange: 3, Cron: "0 0 * * * *",
		Analysis: model.AnalysisConfig{
			Candles:    true,
			Indicators: model.IndicatorFlags{RSI: true},
			Confluence: model.Confluence{Buy: 2, Sell: 2},
		},
	}})
	assert.Contains(t, msg, "<b>eth</b>: ETHUSDT 4h, 3 month(s)")
	assert.Contains(t, msg, "detectors: candles, rsi | confluence 2/2")
}

func TestFormatRun(t *testing.T) {
	now := time.Unix(10_000, 0)
	run := &recorder.Run{
		Watch: "btc", Symbol: "BTCUSDT", Timeframe: "1d",
		StartedAt: now.Add(-2 * time.Hour), Duration: 1234 * time.Millisecond,
		Candles: 1500,
		Report:  &model.Report{Buy: []int64{1, 2}, Insights: &model.Insights{PointOfControl: 1234.5}},
	}
	msg := FormatRun(run, now)
	assert.Contains(t, msg, "Ran 2 hours ago, took 1.234s")
	assert.Contains(t, msg, "Candles: 1,500")
	assert.Contains(t, msg, "Signals: 2 buy, 0 sell")
	assert.Contains(t, msg, "Point of control: 1,234.50")

	run.Err = "exchange <down>"
	assert.Contains(t, FormatRun(run, now), "❌ exchange &lt;down&gt;")
}
