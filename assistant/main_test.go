package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tootli/dineout-assistant/config"
	"github.com/tootli/dineout-assistant/recommend"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAssistant(model ModelClient) *Assistant {
	return &Assistant{
		config:   &config.Config{},
		handler:  NewHandler(testConfig(), model, nil),
		upgrader: websocket.Upgrader{},
	}
}

const recommendBody = `{
	"user_query": "romantic anniversary dinner",
	"user_name": "Ana",
	"candidates": [
		{"id": 1, "name": "La Trattoria", "address": "Calle Mayor 12"},
		{"id": 2, "name": "El Rincón", "address": "Plaza Sur 1"}
	]
}`

func TestHealthRoute(t *testing.T) {
	a := testAssistant(&fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Tootli AI Assistant is running") {
		t.Errorf("unexpected status body: %s", w.Body.String())
	}
}

func TestRecommendRoute_OK(t *testing.T) {
	a := testAssistant(&fakeModel{reply: "I'd suggest place 1! [RECOMMENDATION_IDS: 1]"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/recommend", strings.NewReader(recommendBody))
	req.Header.Set("Content-Type", "application/json")
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result recommend.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ResponseText != "I'd suggest place 1!" {
		t.Errorf("unexpected response text: %q", result.ResponseText)
	}
	if len(result.RecommendationIDs) != 1 || result.RecommendationIDs[0] != 1 {
		t.Errorf("expected [1], got %v", result.RecommendationIDs)
	}
}

func TestRecommendRoute_ValidationError(t *testing.T) {
	a := testAssistant(&fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/recommend", strings.NewReader(`{"user_name": "Ana"}`))
	req.Header.Set("Content-Type", "application/json")
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user_query") {
		t.Errorf("expected the offending field in the error: %s", w.Body.String())
	}
}

func TestRecommendRoute_UpstreamUnavailable(t *testing.T) {
	a := testAssistant(&fakeModel{err: errors.New("rate limited")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/recommend", strings.NewReader(recommendBody))
	req.Header.Set("Content-Type", "application/json")
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "AI service unavailable") {
		t.Errorf("expected the single upstream failure category: %s", w.Body.String())
	}
}

func TestDebugEchoRoute_Malformed(t *testing.T) {
	a := testAssistant(&fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/debug/echo", strings.NewReader(`{"user_query": 42}`))
	req.Header.Set("Content-Type", "application/json")
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("debug echo must never hard-fail, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Error("expected an error field")
	}
	if _, ok := body["received_data"]; !ok {
		t.Error("expected the original input echoed back")
	}
}

func TestDebugEchoRoute_OK(t *testing.T) {
	a := testAssistant(&fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/debug/echo", strings.NewReader(recommendBody))
	req.Header.Set("Content-Type", "application/json")
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Tootli") {
		t.Errorf("expected the rendered prompt in the echo: %s", w.Body.String())
	}
}

func TestDebugAuditRoute_Disabled(t *testing.T) {
	a := testAssistant(&fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/debug/audit", nil)
	a.routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with audit disabled, got %d", w.Code)
	}
}

func TestRecommendStreamRoute(t *testing.T) {
	a := testAssistant(&fakeModel{reply: "¡Hola Ana! [RECOMMENDATION_IDS: 2]"})

	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/recommend/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(recommendBody)); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	sawChunk := false
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("failed to read message: %v", err)
		}

		switch msg.Type {
		case "chunk":
			sawChunk = true
		case "result":
			data, _ := json.Marshal(msg.Data)
			var result recommend.Result
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}
			if len(result.RecommendationIDs) != 1 || result.RecommendationIDs[0] != 2 {
				t.Errorf("expected [2], got %v", result.RecommendationIDs)
			}
			if !sawChunk {
				t.Error("expected at least one chunk before the result")
			}
			return
		case "error":
			t.Fatalf("unexpected error message: %v", msg.Data)
		}
	}
}
