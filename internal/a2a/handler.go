package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

const (
	agentPath    = "/a2a/ideas"
	agentVersion = "1.0.0"
	maxInterests = 500
)

// Generator is the generation pipeline the agent delegates to.
type Generator interface {
	Generate(ctx context.Context, profile models.UserProfile, numIdeas int) (*models.GenerationResult, error)
}

// Handler exposes idea generation as an A2A agent over JSON-RPC.
type Handler struct {
	generator Generator
	logger    *zap.Logger
}

func NewHandler(generator Generator, logger *zap.Logger) *Handler {
	return &Handler{
		generator: generator,
		logger:    logger.With(zap.String("component", "a2a")),
	}
}

func (h *Handler) Register(router gin.IRouter) {
	router.GET("/.well-known/agent.json", h.ServeAgentCard)
	router.POST(agentPath, h.HandleMessage)
}

// HandleMessage processes A2A messages
func (h *Handler) HandleMessage(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, "", "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
		h.logger.Warn("Failed to decode request as JSON-RPC", zap.Error(err))
		h.sendErrorResponse(c, "", "Invalid JSON", CodeParseError)
		return
	}

	if rpcReq.JSONRPC == "" && rpcReq.Method == "" {
		// Bare MessageParams without the JSON-RPC envelope.
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	h.logger.Info("Received JSON-RPC request",
		zap.String("id", rpcReq.ID),
		zap.String("method", rpcReq.Method))

	if rpcReq.JSONRPC != "2.0" {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *Handler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil || len(msgParams.Message.Parts) == 0 {
		h.sendErrorResponse(c, "", "Invalid request format", CodeParseError)
		return
	}
	taskID := uuid.NewString()
	h.sendSuccessResponse(c, taskID, h.runTask(c.Request.Context(), taskID, msgParams.Message))
}

func (h *Handler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	paramsJSON, err := json.Marshal(rpcReq.Params)
	if err != nil {
		h.sendErrorResponse(c, rpcReq.ID, "Failed to parse parameters", CodeInvalidParams)
		return
	}

	var msgParams MessageParams
	if err := json.Unmarshal(paramsJSON, &msgParams); err != nil {
		h.logger.Warn("Invalid message parameters", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	taskID := msgParams.Message.TaskID
	if taskID == "" {
		taskID = rpcReq.ID
	}
	if taskID == "" {
		taskID = uuid.NewString()
	}
	h.sendSuccessResponse(c, rpcReq.ID, h.runTask(c.Request.Context(), taskID, msgParams.Message))
}

func (h *Handler) runTask(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	result := h.generateTask(ctx, taskID, msg)
	if msg.Role == "" {
		msg.Role = RoleUser
	}
	result.History = []A2AMessage{msg}
	return result
}

func (h *Handler) generateTask(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	req, ok := extractRequest(msg)
	if !ok {
		h.logger.Info("No profile found in message", zap.String("task_id", taskID))
		return statusTask(taskID, StateInputRequired,
			"Tell me about your technical skills, experience level, budget and interests and I will suggest project ideas.")
	}

	result, err := h.generator.Generate(ctx, req.Profile, req.Count())
	if err != nil {
		h.logger.Warn("Generation rejected", zap.String("task_id", taskID), zap.Error(err))
		return statusTask(taskID, StateFailed, fmt.Sprintf("Could not generate ideas: %v", err))
	}

	h.logger.Info("Generated ideas for task", zap.String("task_id", taskID), zap.Int("ideas", len(result.Ideas)))
	return successTask(taskID, result)
}

// ServeAgentCard describes this agent to A2A clients.
func (h *Handler) ServeAgentCard(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host

	c.JSON(http.StatusOK, AgentCard{
		Name:        "Binko Idea Generator",
		Description: "Generates personalized project ideas from your skills, budget and experience level, inspired by ideas that worked for other creators.",
		URL:         base + agentPath,
		Version:     agentVersion,
		Capabilities: AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		Endpoints: map[string]string{
			"a2a":    base + agentPath,
			"health": base + "/health",
		},
		DefaultInputModes:  []string{"text", "data"},
		DefaultOutputModes: []string{"text", "data"},
		Skills: []AgentSkill{
			{
				ID:          "generate-project-ideas",
				Name:        "Generate project ideas",
				Description: "Send a profile as a data part ({\"profile\": {...}, \"num_ideas\": 3}) or describe yourself in text.",
				Tags:        []string{"ideas", "side-projects", "startups"},
				Examples:    []string{"I know Python and SQL, I'm a beginner with no budget. What could I build?"},
			},
		},
	})
}

var profileKeys = []string{
	"technical_skills", "non_technical_skills", "experience_level", "preferred_niches",
	"preferred_types", "hours_per_week", "budget", "income_goal", "timeline", "interests", "background",
}

// extractRequest pulls a generation request out of the message parts. A data
// part may carry {"profile": ..., "num_ideas": n} or bare profile fields;
// free text becomes the profile's interests.
func extractRequest(msg A2AMessage) (models.GenerationRequest, bool) {
	var req models.GenerationRequest
	structured := false
	var texts []string

	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			if text := cleanText(part.Text); text != "" {
				texts = append(texts, text)
			}
		case "data":
			switch data := part.Data.(type) {
			case map[string]any:
				if decodeStructured(data, &req) {
					structured = true
				}
			case []any:
				if text := lastUserText(data); text != "" {
					texts = append(texts, text)
				}
			}
		}
	}

	if len(texts) > 0 && req.Profile.Interests == "" {
		interests := strings.Join(texts, " ")
		if r := []rune(interests); len(r) > maxInterests {
			interests = string(r[:maxInterests])
		}
		req.Profile.Interests = interests
	}
	return req, structured || len(texts) > 0
}

func decodeStructured(data map[string]any, req *models.GenerationRequest) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	if _, ok := data["profile"]; ok {
		return json.Unmarshal(raw, req) == nil
	}
	for _, key := range profileKeys {
		if _, ok := data[key]; ok {
			return json.Unmarshal(raw, &req.Profile) == nil
		}
	}
	return false
}

// lastUserText walks conversation history backwards for the most recent
// text that is not an agent progress message.
func lastUserText(history []any) string {
	for i := len(history) - 1; i >= 0; i-- {
		item, ok := history[i].(map[string]any)
		if !ok {
			continue
		}
		if kind, _ := item["kind"].(string); kind != "text" {
			continue
		}
		text, _ := item["text"].(string)
		text = cleanText(text)
		lower := strings.ToLower(text)
		if text == "" || strings.Trim(text, ".") == "" ||
			strings.Contains(lower, "generating") || strings.Contains(lower, "creating") {
			continue
		}
		return text
	}
	return ""
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "<p>", "")
	text = strings.ReplaceAll(text, "</p>", "")
	return strings.TrimSpace(text)
}

func successTask(taskID string, result *models.GenerationResult) TaskResult {
	responseText := formatIdeas(result)

	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(responseText)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Generated Project Ideas",
				Parts:      []MessagePart{DataPart(result)},
			},
		},
	}
}

func statusTask(taskID, state, text string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(text)},
			},
		},
	}
}

func formatIdeas(result *models.GenerationResult) string {
	if len(result.Ideas) == 0 {
		return "No project ideas generated."
	}

	var builder strings.Builder
	builder.WriteString("# Project Ideas\n\n")
	if result.ProfileSummary != "" {
		builder.WriteString(fmt.Sprintf("_%s_\n", result.ProfileSummary))
	}

	for i, idea := range result.Ideas {
		builder.WriteString(fmt.Sprintf("\n## %d. %s\n\n", i+1, idea.Title))
		builder.WriteString(idea.Description)
		builder.WriteString("\n")

		if idea.WhyGoodFit != "" {
			builder.WriteString(fmt.Sprintf("\n**Why it fits:** %s\n", idea.WhyGoodFit))
		}

		if len(idea.FirstSteps) > 0 {
			builder.WriteString("\n**First steps:**\n")
			for j, step := range idea.FirstSteps {
				builder.WriteString(fmt.Sprintf("%d. %s\n", j+1, strings.TrimSpace(step)))
			}
		}

		if len(idea.TechRecommendations) > 0 {
			builder.WriteString(fmt.Sprintf("\n**Tech:** %s\n", strings.Join(idea.TechRecommendations, ", ")))
		}
	}

	return builder.String()
}

func (h *Handler) sendSuccessResponse(c *gin.Context, id string, result TaskResult) {
	h.logger.Debug("Sending task result", zap.String("id", id), zap.String("state", result.Status.State))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK.
func (h *Handler) sendErrorResponse(c *gin.Context, id string, message string, code int) {
	h.logger.Warn("Sending JSON-RPC error", zap.Int("code", code), zap.String("message", message))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
