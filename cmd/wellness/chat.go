package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var userName string

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231"))

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	handoffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	clarifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// chatCmd runs an interactive session against a wellnessd server
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive coaching session",
	Long: `Start an interactive coaching session with the wellnessd server.

Type messages at the prompt; tool results, specialist handoffs, and
clarifications stream back as they happen. Exit with "quit" or Ctrl-D.

Examples:
  # Start a session
  wellness chat --name Dana

  # Use a different server
  wellness chat --name Dana --server http://localhost:8080`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&userName, "name", "", "your name (required)")
	_ = chatCmd.MarkFlagRequired("name")
}

// CreateSessionRequest matches internal/httpapi/server.go CreateSessionRequest
type CreateSessionRequest struct {
	Name string `json:"name"`
}

// CreateSessionResponse matches internal/httpapi/server.go CreateSessionResponse
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	UID       int64  `json:"uid"`
}

// MessageRequest matches internal/httpapi/server.go MessageRequest
type MessageRequest struct {
	Message string `json:"message"`
}

// streamEvent mirrors the orchestrator's stream event wire shape.
type streamEvent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Tool  string          `json:"tool,omitempty"`
	From  string          `json:"from,omitempty"`
	To    string          `json:"to,omitempty"`
	Fatal bool            `json:"fatal,omitempty"`
	Raw   json.RawMessage `json:"result,omitempty"`
}

func runChat(cmd *cobra.Command, args []string) error {
	sessionID, err := createSession(userName)
	if err != nil {
		return err
	}

	fmt.Println(agentStyle.Render(fmt.Sprintf(
		"Hi %s! Tell me about your fitness goal, e.g. \"I want to lose 5kg in 2 months\".", userName)))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := sendMessage(sessionID, line); err != nil {
			fmt.Println(errorStyle.Render("error: " + err.Error()))
		}
	}
}

func createSession(name string) (string, error) {
	body, err := json.Marshal(CreateSessionRequest{Name: name})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(serverURL+"/api/v1/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to reach server at %s: %w", serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var created CreateSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}
	return created.SessionID, nil
}

// sendMessage posts one utterance and renders the SSE stream as it arrives.
func sendMessage(sessionID, message string) error {
	body, err := json.Marshal(MessageRequest{Message: message})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/sessions/%s/messages", serverURL, sessionID)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		payload, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}
		renderEvent(ev)
	}
	return scanner.Err()
}

func renderEvent(ev streamEvent) {
	switch ev.Type {
	case "partial_text":
		fmt.Println(agentStyle.Render(ev.Text))
	case "tool_result":
		fmt.Println(toolStyle.Render(fmt.Sprintf("[%s] %s", ev.Tool, ev.Text)))
	case "handoff":
		fmt.Println(handoffStyle.Render(fmt.Sprintf("-> %s", ev.Text)))
	case "clarification":
		fmt.Println(clarifyStyle.Render(ev.Text))
	case "error":
		prefix := "! "
		if ev.Fatal {
			prefix = "!! "
		}
		fmt.Println(errorStyle.Render(prefix + ev.Text))
	}
}
