// Package mailer posts rendered messages to the transactional mail
// relay.
package mailer

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	fromEmail  string
	fromName   string
}

func NewClient(baseURL, apiKey, fromEmail, fromName string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   baseURL,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From    recipient   `json:"from"`
	To      []recipient `json:"to"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html"`
	Text    string      `json:"text"`
}

// Send delivers one message to every address in the to map, which is
// keyed by email with the display name as value.
func (c *Client) Send(html, plaintext, subject string, to map[string]string) error {
	if len(to) == 0 {
		return errors.New("mail has no recipients")
	}

	req := sendRequest{
		From:    recipient{Email: c.fromEmail, Name: c.fromName},
		Subject: subject,
		HTML:    html,
		Text:    plaintext,
	}
	for email, name := range to {
		req.To = append(req.To, recipient{Email: email, Name: name})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/v1/mail/send", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New("mail API returned non-OK status: " + resp.Status)
	}
	return nil
}
