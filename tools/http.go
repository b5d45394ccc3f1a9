package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout is the fixed timeout applied to every helper request.
const requestTimeout = 5 * time.Second

var httpClient = &http.Client{Timeout: requestTimeout}

// HTTPGet sends a GET request and returns the response body.
func HTTPGet(url string) (string, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	return readBody(resp)
}

// HTTPPost sends a POST request with a plain string body and returns the
// response body.
func HTTPPost(url, body string) (string, error) {
	resp, err := httpClient.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", url, err)
	}
	return readBody(resp)
}

// HTTPPostJSON marshals body as JSON, POSTs it, and returns the response body.
func HTTPPostJSON(url string, body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", url, err)
	}
	return readBody(resp)
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return string(data), nil
}
