package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gas-complaint-server/appstate"
	"gas-complaint-server/config"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
)

func TestFormatSmsMessage(t *testing.T) {
	msg := FormatSmsMessage("شکایت {id} به {target} ارجاع شد.", map[string]string{
		"id":     "C-123456",
		"target": "ناظر و مجری",
	})
	assert.Equal(t, "شکایت C-123456 به ناظر و مجری ارجاع شد.", msg)

	// Tokens without a value stay literal, extra params are ignored.
	msg = FormatSmsMessage("کد {id} و {unknown}", map[string]string{"id": "C-1", "extra": "x"})
	assert.Equal(t, "کد C-1 و {unknown}", msg)
}

func newSmsFixture(t *testing.T) (*SmsService, *appstate.State) {
	t.Helper()
	st, err := store.OpenLocal(t.TempDir())
	require.NoError(t, err)
	state := appstate.New()
	return NewSmsService(state, st, &config.Config{}), state
}

func TestSendNowDirect(t *testing.T) {
	svc, _ := newSmsFixture(t)

	var gotPath string
	var gotQuery map[string]string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"receptor": r.URL.Query().Get("receptor"),
			"sender":   r.URL.Query().Get("sender"),
			"message":  r.URL.Query().Get("message"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"return": map[string]interface{}{"status": 200, "message": "ok"},
		})
	}))
	defer gateway.Close()
	svc.gatewayURL = gateway.URL

	result := svc.SendNow("test-key", "2000660110", "09123456789", "کد پیگیری C-123456")
	assert.True(t, result.Success)
	assert.Equal(t, "/v1/test-key/sms/send.json", gotPath)
	assert.Equal(t, "09123456789", gotQuery["receptor"])
	assert.Equal(t, "2000660110", gotQuery["sender"])
	assert.Equal(t, "کد پیگیری C-123456", gotQuery["message"])
}

func TestSendNowGatewayRejection(t *testing.T) {
	svc, _ := newSmsFixture(t)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"return": map[string]interface{}{"status": 411, "message": "receptor invalid"},
		})
	}))
	defer gateway.Close()
	svc.gatewayURL = gateway.URL

	result := svc.SendNow("test-key", "2000660110", "bad", "پیام")
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "receptor invalid")
	assert.Contains(t, result.Message, "411")
}

func TestSendNowMissingFields(t *testing.T) {
	svc, _ := newSmsFixture(t)
	// No network call happens without the required fields.
	svc.gatewayURL = "http://127.0.0.1:0"

	assert.False(t, svc.SendNow("", "s", "09123456789", "m").Success)
	assert.False(t, svc.SendNow("key", "s", "", "m").Success)
	assert.False(t, svc.SendNow("key", "s", "09123456789", "").Success)
}

func TestSendNowViaRelay(t *testing.T) {
	svc, _ := newSmsFixture(t)

	var gotBody map[string]string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(SmsResult{Success: true, Message: "relayed"})
	}))
	defer relay.Close()
	svc.relayURL = relay.URL

	result := svc.SendNow("test-key", "2000660110", "09123456789", "پیام")
	assert.True(t, result.Success)
	assert.Equal(t, "relayed", result.Message)
	assert.Equal(t, "test-key", gotBody["apiKey"])
	assert.Equal(t, "2000660110", gotBody["sender"])
	assert.Equal(t, "09123456789", gotBody["receptor"])
	assert.Equal(t, "پیام", gotBody["message"])
}

func TestUpdateSettingsFillsTemplateGaps(t *testing.T) {
	svc, state := newSmsFixture(t)

	incoming := models.SmsSettings{
		APIKey:     "key",
		LineNumber: "2000660110",
		IsEnabled:  true,
		Templates:  models.SmsTemplates{NewComplaint: "متن سفارشی {id}"},
	}
	require.NoError(t, svc.UpdateSettings(incoming))

	saved := state.SmsSettings()
	assert.Equal(t, "متن سفارشی {id}", saved.Templates.NewComplaint)
	// Templates left empty fall back to the stock texts.
	def := models.DefaultSmsTemplates()
	assert.Equal(t, def.FinalVerdict, saved.Templates.FinalVerdict)
	assert.Equal(t, def.DefectReturn, saved.Templates.DefectReturn)
}
