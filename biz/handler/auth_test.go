package handler_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol"

	"github.com/calliope-music/calliope/biz/middleware"
	"github.com/calliope-music/calliope/pkg/common"
)

func postJSON(t *testing.T, env *testEnv, path string, payload interface{}, headers ...ut.Header) *ut.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	return ut.PerformRequest(env.engine, "POST", path,
		&ut.Body{Body: bytes.NewReader(raw), Len: len(raw)}, headers...)
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	register := map[string]string{
		"username": "ada",
		"password": "correct-horse",
		"name":     "Ada",
		"surname":  "Lovelace",
	}

	t.Run("Register", func(t *testing.T) {
		w := postJSON(t, env, "/api/v1/auth/register", register)
		if code := w.Result().StatusCode(); code != 200 {
			t.Fatalf("status = %d, want 200 (body: %s)", code, w.Result().Body())
		}
	})

	t.Run("RegisterDuplicateUsername", func(t *testing.T) {
		w := postJSON(t, env, "/api/v1/auth/register", register)
		if code := w.Result().StatusCode(); code != 409 {
			t.Errorf("status = %d, want 409", code)
		}
	})

	t.Run("RegisterShortPassword", func(t *testing.T) {
		w := postJSON(t, env, "/api/v1/auth/register", map[string]string{
			"username": "bob",
			"password": "short",
			"name":     "Bob",
			"surname":  "Builder",
		})
		if code := w.Result().StatusCode(); code != 400 {
			t.Errorf("status = %d, want 400", code)
		}
	})

	var token string
	t.Run("Login", func(t *testing.T) {
		w := postJSON(t, env, "/api/v1/auth/login", map[string]string{
			"username": "ada",
			"password": "correct-horse",
		})
		resp := w.Result()
		if resp.StatusCode() != 200 {
			t.Fatalf("status = %d, want 200 (body: %s)", resp.StatusCode(), resp.Body())
		}
		cookie := protocol.AcquireCookie()
		defer protocol.ReleaseCookie(cookie)
		cookie.SetKey(middleware.SessionCookie)
		if !resp.Header.Cookie(cookie) || len(cookie.Value()) == 0 {
			t.Error("login response sets no session cookie")
		}

		var envelope common.CommonResponse
		if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		data, ok := envelope.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("data = %T, want object", envelope.Data)
		}
		token, ok = data["token"].(string)
		if !ok || token == "" {
			t.Fatal("login response carries no token")
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		w := postJSON(t, env, "/api/v1/auth/login", map[string]string{
			"username": "ada",
			"password": "wrong-password",
		})
		if code := w.Result().StatusCode(); code != 401 {
			t.Errorf("status = %d, want 401", code)
		}
	})

	t.Run("Me", func(t *testing.T) {
		auth := ut.Header{Key: "Authorization", Value: "Bearer " + token}
		w := ut.PerformRequest(env.engine, "GET", "/api/v1/auth/me", nil, auth)
		resp := w.Result()
		if resp.StatusCode() != 200 {
			t.Fatalf("status = %d, want 200", resp.StatusCode())
		}
		if !strings.Contains(string(resp.Body()), `"username":"ada"`) {
			t.Errorf("body %s does not carry the profile", resp.Body())
		}
	})

	t.Run("MeWithoutSession", func(t *testing.T) {
		w := ut.PerformRequest(env.engine, "GET", "/api/v1/auth/me", nil)
		if code := w.Result().StatusCode(); code != 401 {
			t.Errorf("status = %d, want 401", code)
		}
	})

	t.Run("LogoutRevokesSession", func(t *testing.T) {
		auth := ut.Header{Key: "Authorization", Value: "Bearer " + token}
		w := ut.PerformRequest(env.engine, "POST", "/api/v1/auth/logout", nil, auth)
		if code := w.Result().StatusCode(); code != 200 {
			t.Fatalf("logout status = %d, want 200", code)
		}

		w = ut.PerformRequest(env.engine, "GET", "/api/v1/auth/me", nil, auth)
		if code := w.Result().StatusCode(); code != 401 {
			t.Errorf("me after logout status = %d, want 401", code)
		}
	})
}
