// Package mailer merges the legacy mailer actions of a form into a single
// mail configuration. One mailer addressed to a form field (the user mailer)
// drives the confirmation mail; every other mailer (admin mailers) feeds the
// notification recipients.
package mailer

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// ActionType identifies mailer actions in the actions document.
const ActionType = "collective.easyform.actions.Mailer"

// Default placeholders replacing any extracted sender identity.
const (
	DefaultSenderPlaceholder     = "noreply@example.com"
	DefaultSenderNamePlaceholder = "YOURCOMPANY"
)

const (
	keyToField        = "to_field"
	keyRecipientEmail = "recipient_email"
	keyBCCRecipients  = "bcc_recipients"
	keyMsgSubject     = "msg_subject"
	keySubjectField   = "subject_field"
	keySenderOverride = "senderOverride"
	keyBodyPre        = "body_pre"
	keyBodyPost       = "body_post"
	keyBodyFooter     = "body_footer"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger receiving policy warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithPlaceholders overrides the sender placeholders.
func WithPlaceholders(sender, senderName string) Option {
	return func(r *Resolver) {
		if sender != "" {
			r.sender = sender
		}
		if senderName != "" {
			r.senderName = senderName
		}
	}
}

// Resolver merges mailer actions into model.MailerSettings.
type Resolver struct {
	logger     *slog.Logger
	sender     string
	senderName string
}

// NewResolver constructs a Resolver with default placeholders.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{
		sender:     DefaultSenderPlaceholder,
		senderName: DefaultSenderNamePlaceholder,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve merges every mailer action in actions. Non-mailer actions are
// ignored.
func (r *Resolver) Resolve(actions []model.Action) model.MailerSettings {
	b := NewBuilder()

	mailers := Mailers(actions)
	if len(mailers) == 0 {
		return b.Settings()
	}

	user, admins := r.partition(mailers)

	recipients, bcc := mergeAdmins(admins)
	b.Notify(recipients, bcc)

	var source *model.Action
	switch {
	case user != nil:
		b.Confirm("${" + user.Get(keyToField) + "}")
		source = user
	case len(admins) > 0:
		source = &admins[0]
	}
	if source != nil {
		b.Content(r.content(*source))
	}

	if info := adminInfo(admins); info != "" {
		b.AdminInfo(info)
	}

	return b.Anonymize(r.sender, r.senderName).Settings()
}

// Mailers filters actions down to mailer actions, keeping their order.
func Mailers(actions []model.Action) []model.Action {
	var out []model.Action
	for _, action := range actions {
		if action.Type == ActionType {
			out = append(out, action)
		}
	}
	return out
}

// partition returns the first mailer with a to_field as the user mailer and
// every mailer without one as admin mailers. Further user mailers are dropped.
func (r *Resolver) partition(mailers []model.Action) (*model.Action, []model.Action) {
	var (
		user   *model.Action
		admins []model.Action
	)
	for i := range mailers {
		mailer := mailers[i]
		if mailer.Get(keyToField) == "" {
			admins = append(admins, mailer)
			continue
		}
		if user != nil {
			r.logger.Warn("mailer: multiple user mailers found, using the first and skipping the rest",
				"action", mailer.Name, "to_field", mailer.Get(keyToField))
			continue
		}
		user = &mailer
	}
	return user, admins
}

// mergeAdmins joins admin recipients and blind copies with ";". The legacy
// bcc_recipients value feeds both the cc and the bcc accumulator, and both end
// up in the bcc list, so every address appears twice.
func mergeAdmins(admins []model.Action) (string, string) {
	var recipients, cc, bccs []string
	for _, admin := range admins {
		if value := admin.Get(keyRecipientEmail); value != "" {
			recipients = append(recipients, strings.TrimSpace(value))
		}
		if value := admin.Get(keyBCCRecipients); value != "" {
			cc = append(cc, strings.TrimSpace(value))
		}
		if value := admin.Get(keyBCCRecipients); value != "" {
			bccs = append(bccs, strings.TrimSpace(value))
		}
	}

	bcc := strings.Join(bccs, ";")
	if len(cc) > 0 {
		bcc += ";" + strings.Join(cc, ";")
	}
	return strings.Join(recipients, ";"), bcc
}

func (r *Resolver) content(mailer model.Action) Content {
	content := Content{
		Subject: ChooseSubject(mailer),
		Header:  mailer.Get(keyBodyPre),
		Footer:  footer(mailer),
	}
	if override := mailer.Get(keySenderOverride); override != "" {
		content.Sender = r.ParseSenderOverride(override)
	}
	return content
}

// ChooseSubject prefers a literal subject and falls back to a placeholder
// referencing the subject field.
func ChooseSubject(mailer model.Action) string {
	if subject := mailer.Get(keyMsgSubject); subject != "" {
		return subject
	}
	if field := mailer.Get(keySubjectField); field != "" {
		return "${" + field + "}"
	}
	return ""
}

// ParseSenderOverride reads a legacy sender expression. "string:" values are
// literal; "python:" expressions cannot be evaluated and become the sender
// placeholder.
func (r *Resolver) ParseSenderOverride(override string) string {
	switch {
	case strings.HasPrefix(override, "string:"):
		return strings.TrimSpace(strings.TrimPrefix(override, "string:"))
	case strings.HasPrefix(override, "python:"):
		r.logger.Warn("mailer: unsupported sender override, using placeholder",
			"value", override, "placeholder", r.sender)
		return r.sender
	default:
		return override
	}
}

func footer(mailer model.Action) string {
	combined := mailer.Get(keyBodyPost)
	if extra := mailer.Get(keyBodyFooter); extra != "" {
		combined += "\n" + extra
	}
	return strings.TrimSpace(combined)
}

// adminInfo concatenates header and footer of every admin mailer after the
// first. The first admin mailer is skipped even when a user mailer exists.
func adminInfo(admins []model.Action) string {
	var sb strings.Builder
	for idx, admin := range admins {
		if idx == 0 {
			continue
		}
		sb.WriteString(admin.Get(keyBodyPre))
		sb.WriteString("\n")
		sb.WriteString(footer(admin))
		sb.WriteString("\n")
	}
	return sb.String()
}
