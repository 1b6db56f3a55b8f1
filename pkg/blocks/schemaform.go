package blocks

import (
	"github.com/goliatone/go-formmigrate/pkg/config"
	"github.com/goliatone/go-formmigrate/pkg/model"
)

// BuildSchemaBlock combines the converted schema, the form-level settings and
// the merged mailer settings into one schemaForm block. Mailer values win over
// form-level values whenever they are set; header and footer always come from
// the mailer settings.
func BuildSchemaBlock(id string, schema model.Schema, form model.FormSettings, mailer model.MailerSettings, cfg config.Config) model.SchemaFormBlock {
	block := model.SchemaFormBlock{
		Type:                   model.SchemaFormBlockType,
		Schema:                 schema,
		SubmitLabel:            form.SubmitLabel,
		ShowCancel:             form.ShowCancel,
		CancelLabel:            form.CancelLabel,
		Success:                form.Success,
		ThankYou:               form.ThankYou,
		Subject:                form.Subject,
		DataWipe:               form.DataWipe,
		SendConfirmation:       form.SendConfirmation,
		ConfirmationRecipients: form.ConfirmationRecipients,
		Send:                   form.Send,
		Recipients:             form.Recipients,
		MailHeader:             mailer.MailHeader,
		MailFooter:             mailer.MailFooter,
		MailTemplate:           cfg.Form.MailTemplate,
		EnableFormsAPI:         true,
		DataCollectionID:       id,
		Captcha:                cfg.Form.Captcha,
		AdminInfo:              mailer.AdminInfo,
		BCC:                    mailer.BCC,
	}

	if mailer.Send {
		block.Send = true
		block.Recipients = mailer.Recipients
	}
	if mailer.SendConfirmation {
		block.SendConfirmation = true
		block.ConfirmationRecipients = mailer.ConfirmationRecipients
	}
	if mailer.Subject != "" {
		block.Subject = mailer.Subject
	}

	block.Sender = orDefault(mailer.Sender, cfg.Mail.SenderPlaceholder)
	block.SenderName = orDefault(mailer.SenderName, cfg.Mail.SenderNamePlaceholder)

	return block
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
