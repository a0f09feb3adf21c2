package middleware

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func commandUpdate(chatID, userID int64, command string) tgbotapi.Update {
	text := "/" + command
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(text)},
			},
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: userID, UserName: "tester"},
		},
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		if !limiter.Allow(1) {
			t.Fatalf("request %d unexpectedly blocked", i+1)
		}
	}
	if limiter.Allow(1) {
		t.Error("Expected request over limit to be blocked")
	}

	// Лимит считается отдельно для каждого пользователя
	if !limiter.Allow(2) {
		t.Error("Expected different user to be allowed")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, time.Millisecond, zap.NewNop())

	limiter.Allow(1)
	time.Sleep(5 * time.Millisecond)
	limiter.Cleanup()

	if !limiter.Allow(1) {
		t.Error("Expected request to be allowed after window expired")
	}
}

func TestDebouncer_CanProcessRequest(t *testing.T) {
	debouncer := NewDebouncer(time.Minute, zap.NewNop())

	if !debouncer.CanProcessRequest("1:list") {
		t.Fatal("Expected first request to pass")
	}
	if debouncer.CanProcessRequest("1:list") {
		t.Error("Expected immediate repeat to be debounced")
	}
	if !debouncer.CanProcessRequest("1:recipe") {
		t.Error("Expected different key to pass")
	}
}

func TestDebouncer_CustomTimeout(t *testing.T) {
	debouncer := NewDebouncer(time.Minute, zap.NewNop())

	if !debouncer.CanProcessRequestWithTimeout("1:check", time.Millisecond) {
		t.Fatal("Expected first request to pass")
	}
	time.Sleep(5 * time.Millisecond)
	if !debouncer.CanProcessRequestWithTimeout("1:check", time.Millisecond) {
		t.Error("Expected request to pass after custom timeout expired")
	}
}

func TestDebounceMiddleware(t *testing.T) {
	debouncer := NewDebouncer(time.Minute, zap.NewNop())
	logger := zap.NewNop()

	calls := 0
	handler := func(tgbotapi.Update) { calls++ }

	mw := DebounceMiddleware(debouncer, logger)
	mw(commandUpdate(1, 1, "list"), handler)
	mw(commandUpdate(1, 1, "list"), handler)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	mw := RecoveryMiddlewareWithUpdate(zap.NewNop())

	// Паника в обработчике не должна ронять процесс
	mw(commandUpdate(1, 1, "list"), func(tgbotapi.Update) {
		panic("handler exploded")
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		admin    string
		username string
		want     bool
	}{
		{name: "no admin configured allows everyone", admin: "", username: "anyone", want: true},
		{name: "matching admin allowed", admin: "tester", username: "tester", want: true},
		{name: "non-admin blocked", admin: "owner", username: "tester", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			update := commandUpdate(1, 1, "check")
			update.Message.From.UserName = tt.username

			mw := AdminOnlyMiddleware(tt.admin, zap.NewNop())
			mw(update, func(tgbotapi.Update) { called = true })

			if called != tt.want {
				t.Errorf("handler called = %v, want %v", called, tt.want)
			}
		})
	}
}
