package blocks

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/config"
	"github.com/goliatone/go-formmigrate/pkg/model"
)

// Legacy form-data keys.
const (
	KeyFieldsModel            = "fields_model"
	KeyActionsModel           = "actions_model"
	KeySubmitLabel            = "submitLabel"
	KeyUseCancelButton        = "useCancelButton"
	KeyCancelLabel            = "cancel_label"
	KeySender                 = "sender"
	KeySenderName             = "sender_name"
	KeySubject                = "subject"
	KeyDataWipe               = "data_wipe"
	KeyEnableFormsAPI         = "enableFormsAPI"
	KeySendConfirmation       = "send_confirmation"
	KeyConfirmationRecipients = "confirmation_recipients"
	KeyRecipients             = "recipients"
	KeyMailHeader             = "mail_header"
	KeyMailFooter             = "mail_footer"
	KeyThanksTitle            = "thankstitle"
	KeyThanksDescription      = "thanksdescription"
	KeyFormPrologue           = "formPrologue"
	KeyFormEpilogue           = "formEpilogue"
	KeyThanksPrologue         = "thanksPrologue"
	KeyThanksEpilogue         = "thanksEpilogue"
)

// ParseFormSettings reads the top-level legacy form options, applying the
// configured default for every absent or null key.
func ParseFormSettings(data map[string]any, cfg config.Config) model.FormSettings {
	recipients := String(data, KeyRecipients, "")
	return model.FormSettings{
		SubmitLabel:            String(data, KeySubmitLabel, cfg.Form.SubmitLabel),
		ShowCancel:             Bool(data, KeyUseCancelButton, false),
		CancelLabel:            String(data, KeyCancelLabel, cfg.Form.CancelLabel),
		Sender:                 String(data, KeySender, cfg.Mail.SenderPlaceholder),
		SenderName:             String(data, KeySenderName, cfg.Mail.SenderNamePlaceholder),
		Subject:                String(data, KeySubject, ""),
		DataWipe:               Int(data, KeyDataWipe, cfg.Form.DataWipe),
		EnableFormsAPI:         Bool(data, KeyEnableFormsAPI, true),
		SendConfirmation:       Bool(data, KeySendConfirmation, false),
		ConfirmationRecipients: String(data, KeyConfirmationRecipients, ""),
		Send:                   recipients != "",
		Recipients:             recipients,
		MailHeader:             String(data, KeyMailHeader, ""),
		MailFooter:             String(data, KeyMailFooter, ""),
		Success:                String(data, KeyThanksTitle, cfg.Form.Success),
		ThankYou:               String(data, KeyThanksDescription, ""),
	}
}

// RichData returns the "data" member of a rich-text value stored under key,
// or the empty string.
func RichData(data map[string]any, key string) string {
	value, ok := data[key].(map[string]any)
	if !ok {
		return ""
	}
	return String(value, "data", "")
}

// String reads key as a string. Non-string scalars are formatted.
func String(data map[string]any, key, fallback string) string {
	value, ok := data[key]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Bool reads key as a boolean. Strings and numbers follow their usual truth
// values.
func Bool(data map[string]any, key string, fallback bool) bool {
	value, ok := data[key]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return v != ""
		}
		return parsed
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	default:
		return fallback
	}
}

// Int reads key as an integer. Unparseable values yield fallback.
func Int(data map[string]any, key string, fallback int) int {
	value, ok := data[key]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
