package models

// ContentType discriminates the polymorphic behavior of a payload.
// Conflict-strategy selection and database load priority are keyed by it.
type ContentType string

const (
	ContentTypeNote            ContentType = "note"
	ContentTypeTag             ContentType = "tag"
	ContentTypeItemsKey        ContentType = "items_key"
	ContentTypeUserPreferences ContentType = "user_preferences"
	ContentTypeComponent       ContentType = "component"
	ContentTypeTheme           ContentType = "theme"
)
