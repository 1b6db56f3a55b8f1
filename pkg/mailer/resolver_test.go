package mailer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/testsupport"
)

func mailerAction(attrs map[string]string) model.Action {
	return model.Action{Type: ActionType, Attributes: attrs}
}

func newTestResolver(t *testing.T) (*Resolver, *testsupport.LogRecorder) {
	t.Helper()
	logger, rec := testsupport.NewLogger()
	return NewResolver(WithLogger(logger)), rec
}

func TestResolve_NoMailers(t *testing.T) {
	r, _ := newTestResolver(t)

	for _, actions := range [][]model.Action{nil, {{Type: "collective.easyform.actions.SaveData"}}} {
		got := r.Resolve(actions)
		if diff := cmp.Diff(model.MailerSettings{}, got); diff != "" {
			t.Fatalf("expected disabled settings (-want +got):\n%s", diff)
		}
	}
}

func TestResolve_SingleUserMailer(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{
			"to_field":    "replyto",
			"msg_subject": "Thanks",
			"body_pre":    "Dear visitor",
			"body_post":   "Regards",
			"body_footer": "The team",
		}),
	})

	want := model.MailerSettings{
		SendConfirmation:       true,
		ConfirmationRecipients: "${replyto}",
		Subject:                "Thanks",
		MailHeader:             model.RichText{Data: "Dear visitor"},
		MailFooter:             model.RichText{Data: "Regards\nThe team"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_AdminMailersOnly(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{
			"recipient_email": "a@x",
			"msg_subject":     "First",
			"body_pre":        "Header one",
			"body_post":       "Footer one ",
		}),
		mailerAction(map[string]string{
			"recipient_email": " b@x ",
			"msg_subject":     "Second",
			"body_pre":        "Header two",
			"body_post":       "Footer two",
			"body_footer":     "Sig two",
		}),
	})

	if !got.Send || got.Recipients != "a@x;b@x" {
		t.Fatalf("expected merged recipients, got send=%v recipients=%q", got.Send, got.Recipients)
	}
	if got.Subject != "First" || got.MailHeader.Data != "Header one" || got.MailFooter.Data != "Footer one" {
		t.Fatalf("expected content from first admin mailer, got %+v", got)
	}
	if got.SendConfirmation {
		t.Fatalf("no user mailer means no confirmation")
	}
	if got.AdminInfo != "Header two\nFooter two\nSig two\n" {
		t.Fatalf("unexpected admin info %q", got.AdminInfo)
	}
}

// The bcc list deliberately contains every bcc_recipients value twice.
func TestResolve_BCCDuplication(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{"recipient_email": "a@x", "bcc_recipients": "b1@x"}),
		mailerAction(map[string]string{"recipient_email": "c@x", "bcc_recipients": "b2@x"}),
	})
	if got.BCC != "b1@x;b2@x;b1@x;b2@x" {
		t.Fatalf("expected duplicated bcc list, got %q", got.BCC)
	}
}

func TestResolve_UserAndAdminMailers(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{
			"recipient_email": "office@x",
			"body_pre":        "Admin header",
		}),
		mailerAction(map[string]string{
			"to_field":      "email",
			"subject_field": "topic",
			"body_pre":      "User header",
		}),
		mailerAction(map[string]string{
			"recipient_email": "sales@x",
			"body_pre":        "Sales header",
		}),
	})

	if !got.Send || got.Recipients != "office@x;sales@x" {
		t.Fatalf("admin mailers feed notification, got %+v", got)
	}
	if !got.SendConfirmation || got.ConfirmationRecipients != "${email}" {
		t.Fatalf("user mailer feeds confirmation, got %+v", got)
	}
	if got.Subject != "${topic}" || got.MailHeader.Data != "User header" {
		t.Fatalf("user mailer content wins, got %+v", got)
	}
	if got.AdminInfo != "Sales header\n\n" {
		t.Fatalf("admin info skips the first admin mailer, got %q", got.AdminInfo)
	}
}

func TestResolve_SecondUserMailerIgnored(t *testing.T) {
	r, rec := newTestResolver(t)
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{"to_field": "first", "msg_subject": "one"}),
		mailerAction(map[string]string{"to_field": "second", "msg_subject": "two"}),
	})
	if got.ConfirmationRecipients != "${first}" || got.Subject != "one" {
		t.Fatalf("expected first user mailer to win, got %+v", got)
	}
	if got.Send {
		t.Fatalf("second user mailer must not become an admin mailer")
	}
	if !rec.Contains("multiple user mailers") {
		t.Fatalf("expected warning")
	}
}

func TestResolve_SenderIsAlwaysPlaceholder(t *testing.T) {
	cases := []struct {
		name     string
		override string
		want     string
	}{
		{name: "string prefix", override: "string:real@example.org", want: DefaultSenderPlaceholder},
		{name: "python expression", override: "python:here.getSender()", want: DefaultSenderPlaceholder},
		{name: "plain value", override: "plain@example.org", want: DefaultSenderPlaceholder},
		{name: "absent", override: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestResolver(t)
			got := r.Resolve([]model.Action{
				mailerAction(map[string]string{"to_field": "email", "senderOverride": tc.override}),
			})
			if got.Sender != tc.want {
				t.Fatalf("expected sender %q, got %q", tc.want, got.Sender)
			}
			if got.SenderName != "" {
				t.Fatalf("sender name stays empty when never set, got %q", got.SenderName)
			}
		})
	}
}

func TestResolve_CustomPlaceholders(t *testing.T) {
	logger, _ := testsupport.NewLogger()
	r := NewResolver(WithLogger(logger), WithPlaceholders("forms@acme.test", "ACME"))
	got := r.Resolve([]model.Action{
		mailerAction(map[string]string{"recipient_email": "a@x", "senderOverride": "string:boss@acme.test"}),
	})
	if got.Sender != "forms@acme.test" {
		t.Fatalf("expected configured placeholder, got %q", got.Sender)
	}
}

func TestParseSenderOverride(t *testing.T) {
	r, rec := newTestResolver(t)
	if got := r.ParseSenderOverride("string: a@x "); got != "a@x" {
		t.Fatalf("expected literal, got %q", got)
	}
	if got := r.ParseSenderOverride("python:foo"); got != DefaultSenderPlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if !rec.Contains("unsupported sender override") {
		t.Fatalf("expected warning")
	}
	if got := r.ParseSenderOverride("b@x"); got != "b@x" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestChooseSubject(t *testing.T) {
	if got := ChooseSubject(mailerAction(map[string]string{"msg_subject": "Hi", "subject_field": "x"})); got != "Hi" {
		t.Fatalf("literal subject wins, got %q", got)
	}
	if got := ChooseSubject(mailerAction(map[string]string{"subject_field": "x"})); got != "${x}" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := ChooseSubject(mailerAction(nil)); got != "" {
		t.Fatalf("expected empty subject, got %q", got)
	}
}

func TestBuilder_FrozenAfterSettings(t *testing.T) {
	b := NewBuilder().Notify("a@x", "")
	first := b.Settings()
	b.Notify("b@x", "c@x").Confirm("${x}")
	if diff := cmp.Diff(first, b.Settings()); diff != "" {
		t.Fatalf("frozen builder changed (-first +second):\n%s", diff)
	}
}
