// Package model defines the typed records produced while migrating legacy
// form definitions: the converted field schema, the flat action list, the
// merged mailer settings and the schemaForm block that combines them. Pages
// hold the final block map and layout. Field.Required is an in-memory flag
// only; serialised schemas express requiredness through Schema.Required.
package model
