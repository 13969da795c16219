package notifications

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/internal/risk"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

func TestTelegramNotifier_SendAlert(t *testing.T) {
	var (
		path string
		form url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42").WithBaseURL(srv.URL + "/")
	require.NoError(t, n.SendAlert(context.Background(), LevelWarning, "hello"))

	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", form.Get("chat_id"))
	assert.Equal(t, "Markdown", form.Get("parse_mode"))
	assert.Contains(t, form.Get("text"), "⚠️")
	assert.Contains(t, form.Get("text"), "hello")
}

func TestTelegramNotifier_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"ok":false,"description":"slow down"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1").WithBaseURL(srv.URL)
	err := n.SendAlert(context.Background(), LevelInfo, "x")
	require.Error(t, err)
	assert.Equal(t, boterrors.ErrorCategoryRateLimit, boterrors.CategoryOf(err))
	assert.Contains(t, err.Error(), "slow down")

	status = http.StatusBadRequest
	err = n.SendAlert(context.Background(), LevelInfo, "x")
	botErr, ok := boterrors.AsBotError(err)
	require.True(t, ok)
	assert.False(t, botErr.IsRetryable())
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (n *recordingNotifier) SendAlert(_ context.Context, _, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("offline")
	}
	n.messages = append(n.messages, message)
	return nil
}

func report(symbol string, signal analysis.SignalType, confidence float64) scanner.Report {
	return scanner.Report{
		Symbol: symbol,
		Result: &analysis.Result{
			Symbol:        symbol,
			Price:         101.5,
			OverallSignal: signal,
			Confidence:    confidence,
			Signals: []analysis.Signal{
				{Type: analysis.SignalBuy, Strength: 0.4, Confidence: 0.6, Indicator: analysis.IndicatorMACD},
				{Type: analysis.SignalBuy, Strength: 0.9, Confidence: 0.7, Indicator: analysis.IndicatorRSI},
				{Type: analysis.SignalSell, Strength: 0.2, Confidence: 0.65, Indicator: analysis.IndicatorBollinger},
			},
		},
	}
}

func TestSignalAlerter_OnlyAnnouncesChanges(t *testing.T) {
	n := &recordingNotifier{}
	a := NewSignalAlerter(n, 0.6, nil)
	ctx := context.Background()

	sent, err := a.Notify(ctx, []scanner.Report{
		report("BTCUSDT", analysis.SignalBuy, 0.8),
		report("ETHUSDT", analysis.SignalBuy, 0.5), // below threshold
		report("SOLUSDT", analysis.SignalHold, 0),
		{Symbol: "XRPUSDT", Err: errors.New("boom")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, _ = a.Notify(ctx, []scanner.Report{report("BTCUSDT", analysis.SignalBuy, 0.9)})
	assert.Zero(t, sent, "unchanged decision is not repeated")

	sent, _ = a.Notify(ctx, []scanner.Report{report("BTCUSDT", analysis.SignalSell, 0.9)})
	assert.Equal(t, 1, sent)

	a.Notify(ctx, []scanner.Report{report("BTCUSDT", analysis.SignalHold, 0)})
	sent, _ = a.Notify(ctx, []scanner.Report{report("BTCUSDT", analysis.SignalSell, 0.9)})
	assert.Equal(t, 1, sent, "HOLD resets the symbol")
	assert.Len(t, n.messages, 3)
}

func TestSignalAlerter_RetriesFailedSends(t *testing.T) {
	n := &recordingNotifier{fail: true}
	a := NewSignalAlerter(n, 0, nil)
	reports := []scanner.Report{report("BTCUSDT", analysis.SignalBuy, 0.8)}

	sent, err := a.Notify(context.Background(), reports)
	assert.Zero(t, sent)
	assert.ErrorContains(t, err, "BTCUSDT")

	n.fail = false
	sent, err = a.Notify(context.Background(), reports)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestFormatAlert(t *testing.T) {
	rep := report("BTCUSDT", analysis.SignalBuy, 0.75)
	rep.Hint = &risk.PositionHint{Fraction: 0.02, Notional: 200}

	msg := FormatAlert(rep)
	assert.Contains(t, msg, "*BTCUSDT* BUY @ 101.5")
	assert.Contains(t, msg, "Confidence: 75.0%")
	assert.Contains(t, msg, "Signals: "+analysis.IndicatorRSI+" (0.90), "+analysis.IndicatorMACD+" (0.40)")
	assert.NotContains(t, msg, analysis.IndicatorBollinger)
	assert.Contains(t, msg, "Position hint: 200.00 (2.0% of balance)")
}
