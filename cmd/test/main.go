package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

// SmokeClient exercises a running Binko.ai server end to end.
type SmokeClient struct {
	baseURL string
	client  *http.Client
	profile map[string]any
}

func NewSmokeClient(baseURL string, profile map[string]any) *SmokeClient {
	return &SmokeClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			// generation can take several model attempts
			Timeout: 3 * time.Minute,
		},
		profile: profile,
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server")
	testType := flag.String("test", "all", "Test type: all, health, root, ideas, generate, agent-card, a2a")
	skills := flag.String("skills", "Python,SQL", "Comma separated technical skills for generation tests")
	level := flag.String("level", "beginner", "Experience level for generation tests")
	budget := flag.String("budget", "free", "Budget for generation tests")
	flag.Parse()

	profile := map[string]any{
		"technical_skills": splitSkills(*skills),
		"experience_level": *level,
		"budget":           *budget,
		"interests":        "cooking, personal finance",
	}
	client := NewSmokeClient(*baseURL, profile)

	printHeader("Binko.ai - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, client.baseURL, colorReset)

	tests := client.tests()
	if *testType == "all" {
		client.runAll(tests)
		return
	}
	for _, test := range tests {
		if test.key == *testType {
			if !test.fn() {
				os.Exit(1)
			}
			return
		}
	}

	printError(fmt.Sprintf("Unknown test type: %s", *testType))
	fmt.Println("\nAvailable tests: all, health, root, ideas, generate, agent-card, a2a")
	os.Exit(1)
}

type smokeTest struct {
	key  string
	name string
	fn   func() bool
}

func (sc *SmokeClient) tests() []smokeTest {
	return []smokeTest{
		{"health", "Health Check", sc.testHealthCheck},
		{"root", "Root", sc.testRoot},
		{"ideas", "Idea Store", sc.testIdeaLifecycle},
		{"generate", "Idea Generation", sc.testGenerate},
		{"agent-card", "Agent Card", sc.testAgentCard},
		{"a2a", "A2A Message", sc.testA2AMessage},
	}
}

func (sc *SmokeClient) runAll(tests []smokeTest) {
	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (sc *SmokeClient) do(method, path string, payload any) (int, []byte, error) {
	url := sc.baseURL + path
	fmt.Printf("%s %s\n", method, url)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

// expect performs the request and decodes a JSON object response.
func (sc *SmokeClient) expect(method, path string, payload any, wantStatus int) (map[string]any, bool) {
	status, body, err := sc.do(method, path, payload)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, false
	}
	if status != wantStatus {
		printError(fmt.Sprintf("Expected status %d, got %d", wantStatus, status))
		fmt.Printf("Response: %s\n", string(body))
		return nil, false
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return nil, false
	}
	return out, true
}

func (sc *SmokeClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := sc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK || string(body) != "OK" {
		printError(fmt.Sprintf("Expected 200 'OK', got %d '%s'", status, string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (sc *SmokeClient) testRoot() bool {
	printTestHeader("Testing Root Endpoint")

	out, ok := sc.expect(http.MethodGet, "/", nil, http.StatusOK)
	if !ok {
		return false
	}
	if out["status"] != "ok" {
		printError(fmt.Sprintf("Expected status 'ok', got '%v'", out["status"]))
		return false
	}

	printSuccess("Root endpoint is up")
	return true
}

func (sc *SmokeClient) testIdeaLifecycle() bool {
	printTestHeader("Testing Idea Store CRUD")

	created, ok := sc.expect(http.MethodPost, "/api/ideas", map[string]any{
		"title":      fmt.Sprintf("Smoke test idea %d", time.Now().Unix()),
		"summary":    "Temporary record created by the smoke tests",
		"skills":     []string{"Python"},
		"difficulty": "beginner",
		"niche":      "testing",
		"confidence": 0.5,
	}, http.StatusCreated)
	if !ok {
		return false
	}
	id, _ := created["id"].(string)
	if id == "" {
		printError("Created idea has no id")
		return false
	}
	printSuccess(fmt.Sprintf("Created idea %s", id))

	if _, ok := sc.expect(http.MethodGet, "/api/ideas/"+id, nil, http.StatusOK); !ok {
		return false
	}

	list, ok := sc.expect(http.MethodGet, "/api/ideas?niche=testing&limit=5", nil, http.StatusOK)
	if !ok {
		return false
	}
	fmt.Printf("Listed %v ideas in niche 'testing'\n", list["total"])

	if _, ok := sc.expect(http.MethodDelete, "/api/ideas/"+id, nil, http.StatusOK); !ok {
		return false
	}
	if _, ok := sc.expect(http.MethodGet, "/api/ideas/"+id, nil, http.StatusNotFound); !ok {
		return false
	}

	printSuccess("Idea lifecycle passed")
	return true
}

func (sc *SmokeClient) testGenerate() bool {
	printTestHeader("Testing Idea Generation")

	numIdeas := 3
	out, ok := sc.expect(http.MethodPost, "/api/generate", map[string]any{
		"profile":   sc.profile,
		"num_ideas": numIdeas,
	}, http.StatusOK)
	if !ok {
		return false
	}

	ideas, _ := out["ideas"].([]any)
	if len(ideas) != numIdeas {
		printError(fmt.Sprintf("Expected %d ideas, got %d", numIdeas, len(ideas)))
		return false
	}

	printSuccess("Generation returned the requested number of ideas")
	fmt.Printf("\n%sProfile summary:%s %v\n", colorPurple, colorReset, out["profile_summary"])
	for i, item := range ideas {
		if idea, ok := item.(map[string]any); ok {
			fmt.Printf("  %d. %v\n", i+1, idea["title"])
		}
	}
	return true
}

func (sc *SmokeClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	status, body, err := sc.do(http.MethodGet, "/.well-known/agent.json", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}

	var agentCard map[string]any
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	for _, field := range []string{"name", "description", "url", "version", "capabilities", "skills"} {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (sc *SmokeClient) testA2AMessage() bool {
	printTestHeader("Testing A2A message/send")

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("smoke-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]any{
			"message": map[string]any{
				"kind": "message",
				"role": "user",
				"parts": []map[string]any{
					{"kind": "data", "data": map[string]any{"profile": sc.profile, "num_ideas": 2}},
				},
			},
			"configuration": map[string]any{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	response, ok := sc.expect(http.MethodPost, "/a2a/ideas", request, http.StatusOK)
	if !ok {
		return false
	}

	if errObj, ok := response["error"]; ok {
		printError("Request returned an error")
		errJSON, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Println(string(errJSON))
		return false
	}

	result, _ := response["result"].(map[string]any)
	status, _ := result["status"].(map[string]any)
	if state, _ := status["state"].(string); state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%v'", status["state"]))
		return false
	}

	printSuccess("A2A task completed")

	if msg, ok := status["message"].(map[string]any); ok {
		if parts, ok := msg["parts"].([]any); ok {
			fmt.Println(strings.Repeat("=", 80))
			for _, part := range parts {
				if p, ok := part.(map[string]any); ok {
					if text, ok := p["text"].(string); ok {
						fmt.Println(text)
					}
				}
			}
			fmt.Println(strings.Repeat("=", 80))
		}
	}
	return true
}

func splitSkills(value string) []string {
	var out []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
