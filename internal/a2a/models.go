package a2a

import (
	"time"
)

// JSON-RPC types
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// Message types
type MessageParams struct {
	Message       A2AMessage           `json:"message"`
	Configuration MessageConfiguration `json:"configuration"`
}

type A2AMessage struct {
	Kind      string        `json:"kind"`
	Role      string        `json:"role"`
	Parts     []MessagePart `json:"parts"`
	MessageID string        `json:"messageId,omitempty"`
	TaskID    string        `json:"taskId,omitempty"`
}

type MessagePart struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

type MessageConfiguration struct {
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitempty"`
	HistoryLength       int      `json:"historyLength,omitempty"`
	Blocking            bool     `json:"blocking,omitempty"`
}

// Task types
type TaskResult struct {
	ID        string       `json:"id"`
	ContextID string       `json:"contextId,omitempty"`
	Status    TaskStatus   `json:"status"`
	Artifacts []Artifact   `json:"artifacts,omitempty"`
	History   []A2AMessage `json:"history,omitempty"`
	Kind      string       `json:"kind"`
}

type TaskStatus struct {
	State     string      `json:"state"`
	Timestamp string      `json:"timestamp"`
	Message   *A2AMessage `json:"message,omitempty"`
}

type Artifact struct {
	ArtifactID string        `json:"artifactId"`
	Name       string        `json:"name"`
	Parts      []MessagePart `json:"parts"`
}

// AgentCard is served at /.well-known/agent.json.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	Endpoints          map[string]string `json:"endpoints"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills"`
}

type AgentCapabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Helper functions
func TextPart(text string) MessagePart {
	return MessagePart{
		Kind: "text",
		Text: text,
	}
}

func DataPart(data any) MessagePart {
	return MessagePart{
		Kind: "data",
		Data: data,
	}
}

func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Task states
const (
	StateInputRequired = "input-required"
	StateCompleted     = "completed"
	StateFailed        = "failed"
)

// Message roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)
