// Package notify e-mails site owners about new contact requests and
// newsletter signups through a Resend-compatible HTTP API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

const DefaultAPIURL = "https://api.resend.com/emails"

type Kind string

const (
	KindContact    Kind = "contact"
	KindNewsletter Kind = "newsletter"
)

func (k Kind) Valid() bool {
	return k == KindContact || k == KindNewsletter
}

func (k Kind) subject() string {
	if k == KindNewsletter {
		return "Новая подписка на рассылку"
	}
	return "Новая заявка с сайта"
}

// Notification is one message to the fixed recipient. Payload keys become
// rows of the rendered table.
type Notification struct {
	Type    Kind              `json:"type"`
	Payload map[string]string `json:"payload"`
}

var (
	ErrNotConfigured = errors.New("e-mail relay is not configured")
	ErrUnknownKind   = errors.New("unknown notification type")
)

// Error is a non-2xx answer from the e-mail API.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("e-mail api returned %d: %s", e.Status, e.Body)
}

var mailTemplate = template.Must(template.New("mail").Parse(`<h2>{{.Subject}}</h2>
<table cellpadding="6" style="border-collapse:collapse">
{{range .Rows}}<tr><td><strong>{{.Key}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>
<p style="color:#888">{{.Sent}}</p>
`))

type row struct {
	Key   string
	Value string
}

type Relay struct {
	APIURL string
	APIKey string
	From   string
	To     string
	Client *http.Client
	Logger *slog.Logger
}

func NewRelay(apiURL, apiKey, from, to string) *Relay {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Relay{
		APIURL: apiURL,
		APIKey: apiKey,
		From:   from,
		To:     to,
		Client: &http.Client{Timeout: 15 * time.Second},
		Logger: slog.Default(),
	}
}

func (r *Relay) Enabled() bool {
	return r != nil && r.APIKey != "" && r.To != "" && r.From != ""
}

// Render returns the subject and HTML body of n.
func Render(n Notification, now time.Time) (string, string, error) {
	keys := make([]string, 0, len(n.Payload))
	for k := range n.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, row{Key: k, Value: n.Payload[k]})
	}

	subject := n.Type.subject()
	var buf bytes.Buffer
	err := mailTemplate.Execute(&buf, map[string]any{
		"Subject": subject,
		"Rows":    rows,
		"Sent":    now.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

func (r *Relay) Send(ctx context.Context, n Notification) error {
	if !r.Enabled() {
		return ErrNotConfigured
	}
	if !n.Type.Valid() {
		return ErrUnknownKind
	}

	subject, html, err := Render(n, time.Now())
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"from":    r.From,
		"to":      []string{r.To},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	r.Logger.Info("Notification sent", "type", n.Type)
	return nil
}
