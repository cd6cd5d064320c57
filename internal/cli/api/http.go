package api

import (
	"VaultKeeper/internal/router"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Timeout — таймаут одного запроса к демону.
const Timeout = 30 * time.Second

var client = &http.Client{Timeout: Timeout}

// ReplyError — отказ демона с типом ошибки протокола.
type ReplyError struct {
	Kind    router.ErrorKind
	Message string
}

func (e *ReplyError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as bearer token.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = p
	default:
		var err error
		if b, err = json.Marshal(payload); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, body, nil
}

// Send отправляет сообщение протокола демону по адресу serverURL.
// Ответ с ok=false возвращается как *ReplyError.
func Send(ctx context.Context, serverURL, token string, req router.Request) (router.Reply, error) {
	msg, err := router.Encode(req)
	if err != nil {
		return router.Reply{}, fmt.Errorf("encode %s: %w", req.Type(), err)
	}
	endpoint := strings.TrimRight(serverURL, "/") + "/api/message"
	resp, body, err := PostJSON(ctx, endpoint, msg, token)
	if err != nil {
		return router.Reply{}, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return router.Reply{}, fmt.Errorf("unauthorized: check AUTH_SECRET")
	}

	var reply router.Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return router.Reply{}, fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !reply.OK {
		return reply, &ReplyError{Kind: reply.Error, Message: reply.Message}
	}
	return reply, nil
}
