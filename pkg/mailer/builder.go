package mailer

import "github.com/goliatone/go-formmigrate/pkg/model"

// Builder accumulates mailer settings field by field and freezes them on
// Settings. Each step owns a disjoint set of fields, so the order in which the
// resolver calls them is the precedence order.
type Builder struct {
	settings model.MailerSettings
	frozen   bool
}

// NewBuilder returns a builder holding disabled, empty settings.
func NewBuilder() *Builder {
	return &Builder{}
}

// Notify enables admin notification when recipients is non-empty and records
// the blind-copy list when bcc is non-empty.
func (b *Builder) Notify(recipients, bcc string) *Builder {
	if b.frozen {
		return b
	}
	if recipients != "" {
		b.settings.Send = true
		b.settings.Recipients = recipients
	}
	if bcc != "" {
		b.settings.BCC = bcc
	}
	return b
}

// Confirm enables the confirmation mail sent to the submitter.
func (b *Builder) Confirm(recipients string) *Builder {
	if b.frozen {
		return b
	}
	b.settings.SendConfirmation = true
	b.settings.ConfirmationRecipients = recipients
	return b
}

// Content sets the subject, sender, header and footer taken from the mailer
// that drives the mail body.
func (b *Builder) Content(content Content) *Builder {
	if b.frozen {
		return b
	}
	b.settings.Subject = content.Subject
	if content.Sender != "" {
		b.settings.Sender = content.Sender
	}
	b.settings.MailHeader = model.RichText{Data: content.Header}
	b.settings.MailFooter = model.RichText{Data: content.Footer}
	return b
}

// AdminInfo records free text carried forward from additional admin mailers.
func (b *Builder) AdminInfo(info string) *Builder {
	if b.frozen {
		return b
	}
	b.settings.AdminInfo = info
	return b
}

// Anonymize replaces a non-empty sender and sender name with placeholders.
// Empty values stay empty.
func (b *Builder) Anonymize(sender, senderName string) *Builder {
	if b.frozen {
		return b
	}
	if b.settings.Sender != "" {
		b.settings.Sender = sender
	}
	if b.settings.SenderName != "" {
		b.settings.SenderName = senderName
	}
	return b
}

// Settings freezes the builder and returns the accumulated settings. Later
// mutations are ignored.
func (b *Builder) Settings() model.MailerSettings {
	b.frozen = true
	return b.settings
}

// Content is the mail body extracted from a single mailer action.
type Content struct {
	Subject string
	Sender  string
	Header  string
	Footer  string
}
