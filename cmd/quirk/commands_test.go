package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/quirk/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestResolveRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /resolve": `{"success":true,"config":{"request_id":"req-1","description":"cowboy","profile":{"id":"p1","name":"Cowboy","type":"archetype"},"confidence":0.9,"environment":{"type_tag":"unknown","active":false}}}`,
	})

	client := ts.client()
	resp, err := client.post(ctx, "/resolve", map[string]any{
		"description": "cowboy",
		"use_cache":   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Success bool `json:"success"`
		Config  struct {
			Profile struct {
				Name string `json:"name"`
			} `json:"profile"`
		} `json:"config"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !result.Success || result.Config.Profile.Name != "Cowboy" {
		t.Errorf("result = %+v", result)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["description"] != "cowboy" {
		t.Errorf("body.description = %v, want cowboy", body["description"])
	}
}

func TestResolveCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"resolve"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "arg") {
		t.Errorf("error = %q, want it to mention args", err.Error())
	}
}

func TestDecodeJSON_FailureResultPassedThrough(t *testing.T) {
	// 422 carries a structured pipeline failure, not a transport error.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(422)
		w.Write([]byte(`{"success":false,"error":{"code":"UNCLEAR_INPUT","message":"too vague","suggestions":["be specific"]}}`))
	}))
	defer ts.Close()

	client := &apiClient{
		baseURL:    ts.URL,
		token:      "test",
		httpClient: ts.Client(),
	}

	resp, err := client.post(ctx, "/resolve", map[string]any{"description": "hm"})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var result struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Success || result.Error.Code != "UNCLEAR_INPUT" {
		t.Errorf("result = %+v", result)
	}
}

func TestDecodeJSON_ErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":{"message":"unauthorized","type":"auth_error"}}`))
	}))
	defer ts.Close()

	client := &apiClient{
		baseURL:    ts.URL,
		token:      "bad-token",
		httpClient: ts.Client(),
	}

	resp, err := client.get(ctx, "/history")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var result any
	err = decodeJSON(resp, &result)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %q, want it to contain '401'", err.Error())
	}
}

func TestStatusCommand_Stopped(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()

	client := ts.client()
	_, err := client.get(ctx, "/healthz")
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestArchetypesList(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /archetypes": `[{"key":"cowboy","name":"Cowboy","traits":["independent"],"tone":"relaxed"}]`,
	})

	client := ts.client()
	resp, err := client.get(ctx, "/archetypes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var archetypes []struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(resp, &archetypes); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(archetypes) != 1 || archetypes[0].Key != "cowboy" {
		t.Errorf("archetypes = %+v", archetypes)
	}
}

func TestHistoryList(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /history": `[{"id":"res-0001-abcd","description":"pirate","success":true,"profile_name":"Pirate","confidence":0.9}]`,
	})

	client := ts.client()
	resp, err := client.get(ctx, "/history?limit=20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resolutions []struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
	}
	if err := decodeJSON(resp, &resolutions); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(resolutions) != 1 || !resolutions[0].Success {
		t.Errorf("resolutions = %+v", resolutions)
	}
}

func TestConfigShowAll(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Port = 4600
	cfg.Cache.TTL = "24h"

	keys := config.ShowAll(cfg)
	if len(keys) == 0 {
		t.Fatal("expected non-empty keys from ShowAll")
	}

	found := false
	for _, k := range keys {
		if k.Key == "server.port" && k.Value == "4600" {
			found = true
		}
	}
	if !found {
		t.Error("expected to find server.port=4600 in ShowAll output")
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0b1f3c9a-1234-5678-9abc-def012345678", "0b1f3c9a"},
		{"12345678", "12345678"},
		{"r1", "r1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		count, limit int
		want         string
	}{
		{5, 100, "5"},
		{0, 100, "0"},
		{100, 100, "100+"},
		{150, 100, "150+"},
	}
	for _, tt := range tests {
		got := countLabel(tt.count, tt.limit)
		if got != tt.want {
			t.Errorf("countLabel(%d, %d) = %q, want %q", tt.count, tt.limit, got, tt.want)
		}
	}
}
