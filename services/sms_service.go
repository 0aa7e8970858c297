package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gas-complaint-server/appstate"
	"gas-complaint-server/config"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
)

const kavenegarGateway = "https://api.kavenegar.com"

// SmsResult is the outcome of a single send attempt.
type SmsResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// kavenegarResponse is the gateway's envelope.
type kavenegarResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

// SmsService sends lifecycle notifications through the Kavenegar gateway,
// either directly or via a relay that keeps the API key server-side.
// Delivery is best-effort: a failed send is logged and never blocks or rolls
// back a state transition.
type SmsService struct {
	state      *appstate.State
	store      store.Store
	client     *http.Client
	gatewayURL string
	relayURL   string
}

func NewSmsService(state *appstate.State, st store.Store, cfg *config.Config) *SmsService {
	return &SmsService{
		state:      state,
		store:      st,
		client:     &http.Client{Timeout: 15 * time.Second},
		gatewayURL: kavenegarGateway,
		relayURL:   cfg.SMS.RelayURL,
	}
}

// FormatSmsMessage substitutes {key} tokens in a template.
func FormatSmsMessage(template string, params map[string]string) string {
	message := template
	for key, value := range params {
		message = strings.ReplaceAll(message, "{"+key+"}", value)
	}
	return message
}

// Settings returns the current SMS settings.
func (s *SmsService) Settings() models.SmsSettings {
	return s.state.SmsSettings()
}

// UpdateSettings replaces the settings and persists them.
func (s *SmsService) UpdateSettings(settings models.SmsSettings) error {
	settings.FillTemplateDefaults()
	s.state.SetSmsSettings(settings)
	if err := s.store.SaveSettings(&settings); err != nil {
		return &PersistenceError{Op: "save sms settings", Err: err}
	}
	return nil
}

// Dispatch formats the template and sends it off the caller's path. No
// receptor or disabled panel is a silent no-op.
func (s *SmsService) Dispatch(receptor, template string, params map[string]string) {
	if receptor == "" {
		return
	}
	settings := s.state.SmsSettings()
	if !settings.IsEnabled {
		return
	}
	if settings.APIKey == "" || settings.LineNumber == "" {
		log.Println("[SMS] cannot send: API key or line number missing")
		return
	}

	message := FormatSmsMessage(template, params)
	go func() {
		result := s.send(settings.APIKey, settings.LineNumber, receptor, message)
		if !result.Success {
			log.Printf("[SMS failed] to %s: %s", receptor, result.Message)
		}
	}()
}

// SendNow performs a synchronous send with the given credentials.
func (s *SmsService) SendNow(apiKey, sender, receptor, message string) SmsResult {
	return s.send(apiKey, sender, receptor, message)
}

func (s *SmsService) send(apiKey, sender, receptor, message string) SmsResult {
	if apiKey == "" || receptor == "" || message == "" {
		return SmsResult{Success: false, Message: "missing apiKey, receptor or message"}
	}
	if s.relayURL != "" {
		return s.sendViaRelay(apiKey, sender, receptor, message)
	}
	return s.sendDirect(apiKey, sender, receptor, message)
}

// sendDirect calls the Kavenegar HTTP API.
func (s *SmsService) sendDirect(apiKey, sender, receptor, message string) SmsResult {
	endpoint := fmt.Sprintf("%s/v1/%s/sms/send.json?receptor=%s&sender=%s&message=%s",
		s.gatewayURL, apiKey,
		url.QueryEscape(receptor), url.QueryEscape(sender), url.QueryEscape(message))

	resp, err := s.client.Get(endpoint)
	if err != nil {
		return SmsResult{Success: false, Message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SmsResult{Success: false, Message: fmt.Sprintf("gateway returned %s", resp.Status)}
	}

	var payload kavenegarResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SmsResult{Success: false, Message: fmt.Sprintf("invalid gateway response: %v", err)}
	}
	if payload.Return.Status != 200 {
		return SmsResult{
			Success: false,
			Message: fmt.Sprintf("%s (code %d)", payload.Return.Message, payload.Return.Status),
		}
	}
	return SmsResult{Success: true, Message: "sent"}
}

// sendViaRelay posts to the intermediary relay function, which holds the
// outbound call to Kavenegar.
func (s *SmsService) sendViaRelay(apiKey, sender, receptor, message string) SmsResult {
	body, err := json.Marshal(map[string]string{
		"apiKey":   apiKey,
		"sender":   sender,
		"receptor": receptor,
		"message":  message,
	})
	if err != nil {
		return SmsResult{Success: false, Message: err.Error()}
	}

	resp, err := s.client.Post(s.relayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return SmsResult{Success: false, Message: fmt.Sprintf("relay network error: %v", err)}
	}
	defer resp.Body.Close()

	var result SmsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SmsResult{Success: false, Message: fmt.Sprintf("invalid relay response: %v", err)}
	}
	return result
}
