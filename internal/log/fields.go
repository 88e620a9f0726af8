package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserAgent = "user_agent"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldMonth       = "month"
	FieldSourceMonth = "source_month"
	FieldTargetMonth = "target_month"
	FieldKind        = "kind"
	FieldEntryID     = "id"
	FieldLabel       = "label"
	FieldAmount      = "amount"
	FieldPerson      = "person"
	FieldCopyMode    = "copy_mode"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentCopier  = "copier"
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpCopy     = "copy"
	OpPreview  = "preview"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
