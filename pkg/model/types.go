package model

// FieldType is the JSON-schema type emitted for a field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Field factories understood by the block-based form editor.
const (
	FactoryStaticText    = "static_text"
	FactoryFileUpload    = "File Upload"
	FactoryHidden        = "hidden"
	FactoryTextLine      = "label_text_field"
	FactoryEmail         = "label_email"
	FactoryBoolean       = "label_boolean_field"
	FactoryChoice        = "label_choice_field"
	FactoryCheckboxGroup = "checkbox_group"
	FactoryRadioGroup    = "radio_group"
	FactoryDate          = "label_date_field"
	FactoryDatetime      = "label_datetime_field"
	FactoryTextarea      = "textarea"
	FactoryNumber        = "number"
	FactoryPhone         = "phonenumber"
)

// Widget identifiers paired with the factories above.
const (
	WidgetStaticText    = "static_text"
	WidgetHidden        = "hidden"
	WidgetEmail         = "email"
	WidgetCheckboxGroup = "checkbox_group"
	WidgetRadioGroup    = "radio_group"
	WidgetDate          = "date"
	WidgetDatetime      = "datetime"
	WidgetTextarea      = "textarea"
)

// DefaultFieldsetID names the single fieldset every converted schema carries.
const DefaultFieldsetID = "default"

// Choice is a [value, label] pair. Legacy vocabularies use the same string for
// both.
type Choice [2]string

// RichText wraps HTML or plain text the way the block editor stores rich
// values.
type RichText struct {
	Data string `json:"data"`
}

// Field describes one converted form field. Required is tracked while the
// schema is assembled and projected into Schema.Required; it never appears in
// the serialised field.
type Field struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Type               FieldType `json:"type"`
	Factory            string    `json:"factory,omitempty"`
	Widget             string    `json:"widget,omitempty"`
	Default            any       `json:"default,omitempty"`
	Value              string    `json:"value,omitempty"`
	Choices            []Choice  `json:"choices,omitempty"`
	Values             []string  `json:"values,omitempty"`
	Minimum            string    `json:"minimum,omitempty"`
	Maximum            string    `json:"maximum,omitempty"`
	MinLength          *int      `json:"minLength,omitempty"`
	MaxLength          *int      `json:"maxLength,omitempty"`
	QueryParameterName string    `json:"queryParameterName,omitempty"`
	Required           bool      `json:"-"`
}

// HasChoices reports whether an enumerated vocabulary was attached.
func (f Field) HasChoices() bool {
	return len(f.Choices) > 0
}

// Fieldset groups field ids for layout.
type Fieldset struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// Schema is the JSON-schema-like form description embedded in a schemaForm
// block.
type Schema struct {
	Fieldsets  []Fieldset       `json:"fieldsets"`
	Properties map[string]Field `json:"properties"`
	Required   []string         `json:"required"`
}

// NewSchema returns an empty schema with the single default fieldset.
func NewSchema() Schema {
	return Schema{
		Fieldsets: []Fieldset{
			{ID: DefaultFieldsetID, Title: "Default", Fields: []string{}},
		},
		Properties: map[string]Field{},
		Required:   []string{},
	}
}

// Action is one entry of a legacy actions document: its type plus every child
// element keyed by unqualified tag name.
type Action struct {
	Name       string            `json:"name,omitempty"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Get returns the attribute value or the empty string.
func (a Action) Get(key string) string {
	if a.Attributes == nil {
		return ""
	}
	return a.Attributes[key]
}

// MailerSettings is the consolidated mail configuration derived from all mailer
// actions of a form.
type MailerSettings struct {
	Send                   bool     `json:"send"`
	Recipients             string   `json:"recipients"`
	BCC                    string   `json:"bcc"`
	Sender                 string   `json:"sender"`
	SenderName             string   `json:"sender_name,omitempty"`
	Subject                string   `json:"subject"`
	MailHeader             RichText `json:"mail_header"`
	MailFooter             RichText `json:"mail_footer"`
	SendConfirmation       bool     `json:"send_confirmation"`
	ConfirmationRecipients string   `json:"confirmation_recipients"`
	AdminInfo              string   `json:"admin_info,omitempty"`
}

// FormSettings carries the top-level legacy form options after defaults were
// applied.
type FormSettings struct {
	SubmitLabel            string `json:"submit_label"`
	ShowCancel             bool   `json:"show_cancel"`
	CancelLabel            string `json:"cancel_label"`
	Sender                 string `json:"sender"`
	SenderName             string `json:"sender_name"`
	Subject                string `json:"subject"`
	DataWipe               int    `json:"data_wipe"`
	EnableFormsAPI         bool   `json:"enableFormsAPI"`
	SendConfirmation       bool   `json:"send_confirmation"`
	ConfirmationRecipients string `json:"confirmation_recipients"`
	Send                   bool   `json:"send"`
	Recipients             string `json:"recipients"`
	MailHeader             string `json:"mail_header"`
	MailFooter             string `json:"mail_footer"`
	Success                string `json:"success"`
	ThankYou               string `json:"thankyou"`
}

// SchemaFormBlockType is the @type of the form block.
const SchemaFormBlockType = "schemaForm"

// SchemaFormBlock is the single form block produced per legacy form.
type SchemaFormBlock struct {
	Type                   string   `json:"@type"`
	Schema                 Schema   `json:"schema"`
	SubmitLabel            string   `json:"submit_label"`
	ShowCancel             bool     `json:"show_cancel"`
	CancelLabel            string   `json:"cancel_label"`
	Success                string   `json:"success"`
	ThankYou               string   `json:"thankyou"`
	Sender                 string   `json:"sender"`
	SenderName             string   `json:"sender_name"`
	Subject                string   `json:"subject"`
	DataWipe               int      `json:"data_wipe"`
	SendConfirmation       bool     `json:"send_confirmation"`
	ConfirmationRecipients string   `json:"confirmation_recipients"`
	Send                   bool     `json:"send"`
	Recipients             string   `json:"recipients"`
	BCC                    string   `json:"bcc,omitempty"`
	MailHeader             RichText `json:"mail_header"`
	MailFooter             RichText `json:"mail_footer"`
	MailTemplate           string   `json:"mail_template"`
	EnableFormsAPI         bool     `json:"enableFormsAPI"`
	DataCollectionID       string   `json:"dataCollectionId"`
	Captcha                string   `json:"captcha"`
	AdminInfo              string   `json:"admin_info,omitempty"`
}

// Block is a free-form block payload, typically produced by the HTML
// conversion service.
type Block = map[string]any

// Layout lists block ids in rendering order.
type Layout struct {
	Items []string `json:"items"`
}

// Page is the block map plus layout written back to a migrated content item.
type Page struct {
	Blocks       map[string]any `json:"blocks"`
	BlocksLayout Layout         `json:"blocks_layout"`
}

// NewPage returns an empty page.
func NewPage() Page {
	return Page{
		Blocks:       map[string]any{},
		BlocksLayout: Layout{Items: []string{}},
	}
}

// Append stores block under id and records id in the layout.
func (p *Page) Append(id string, block any) {
	if p.Blocks == nil {
		p.Blocks = map[string]any{}
	}
	p.Blocks[id] = block
	p.BlocksLayout.Items = append(p.BlocksLayout.Items, id)
}

// Len returns the number of blocks in the layout.
func (p Page) Len() int {
	return len(p.BlocksLayout.Items)
}
