package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"gridpath-server/api"
	"gridpath-server/config"
)

// Prints an API token for the configured secret and, unless -token-only is
// set, creates a session for a preset task through the running server.
func main() {
	taskID := flag.Int("task", 1, "preset task to start")
	role := flag.String("role", api.RoleAdmin, "role claim of the token")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	url := flag.String("url", "http://localhost:8080/api/v1/sessions", "session endpoint")
	autoplay := flag.Bool("autoplay", false, "advance the session on the server's tick interval")
	tokenOnly := flag.Bool("token-only", false, "print the token and exit")
	flag.Parse()

	cfg := config.LoadConfig()
	if !api.ValidRole(*role) {
		fmt.Fprintf(os.Stderr, "error: unknown role %q\n", *role)
		os.Exit(1)
	}
	var token string
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "warn: JWT_SECRET is empty; the server accepts unauthenticated requests")
	} else {
		var err error
		token, err = api.GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, "session-create", *role, *ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: could not generate token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	}
	if *tokenOnly {
		return
	}

	body, err := json.Marshal(map[string]any{"task_id": *taskID, "autoplay": *autoplay})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: could not marshal request: %v\n", err)
		return
	}
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: building request failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: API request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "warn: API create returned status %s\n", resp.Status)
		return
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		fmt.Fprintf(os.Stderr, "warn: could not decode response: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Created session %s for task %d\n", created.SessionID, *taskID)
}
