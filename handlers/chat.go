package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"screenai/config"
	"screenai/utils"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

const chatPromptTemplate = "You are a friendly AI assistant for resume and job-related questions.\nUser: %s\nAI:"

// Chat proxies a streaming completion from the local Ollama instance and
// re-emits it as plain text chunks.
func Chat(cfg config.OllamaConfig) gin.HandlerFunc {
	client := &http.Client{Timeout: 5 * time.Minute}

	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"reply": "Please type something."})
			return
		}
		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.JSON(http.StatusOK, gin.H{"reply": "Please type something."})
			return
		}

		payload, _ := json.Marshal(ollamaGenerateRequest{
			Model:  cfg.Model,
			Prompt: fmt.Sprintf(chatPromptTemplate, message),
			Stream: true,
		})

		resp, err := client.Post(cfg.URL+"/api/generate", "application/json", bytes.NewReader(payload))
		if err != nil {
			utils.LogError("Ollama connection failed", err)
			c.JSON(http.StatusOK, gin.H{"reply": "Could not connect to the assistant backend. Is it running?"})
			return
		}
		defer resp.Body.Close()

		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var chunk ollamaChunk
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue
			}
			if chunk.Response != "" {
				if _, err := c.Writer.WriteString(chunk.Response); err != nil {
					return
				}
				c.Writer.Flush()
			}
			if chunk.Done {
				break
			}
		}
		if err := scanner.Err(); err != nil {
			utils.LogError("Ollama stream read failed", err)
		}
	}
}
