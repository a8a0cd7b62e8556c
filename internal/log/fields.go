package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldProfileID     = "profile_id"
	FieldTransactionID = "transaction_id"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldRecurring     = "recurring"
	FieldPeriod        = "period"
	FieldMonthKey      = "month_key"
	FieldRemoved       = "removed"
	FieldSheetsRef     = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentRetention = "retention"
	ComponentReport    = "report"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentBackend   = "backend"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSelect   = "select"
	OpList     = "list"
	OpExport   = "export"
	OpCleanup  = "cleanup"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields is an ordered set of key/value pairs for slog.
type LogFields struct {
	keys   []string
	values map[string]any
}

func NewFields() *LogFields {
	return &LogFields{values: make(map[string]any)}
}

// Set adds or replaces a field, keeping first-insertion order.
func (f *LogFields) Set(key string, value any) *LogFields {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return f
}

func (f *LogFields) WithComponent(component string) *LogFields {
	return f.Set(FieldComponent, component)
}

func (f *LogFields) WithRequestID(requestID string) *LogFields {
	return f.Set(FieldRequestID, requestID)
}

func (f *LogFields) WithClientIP(ip string) *LogFields {
	return f.Set(FieldClientIP, ip)
}

// WithError adds the error message; a nil error adds nothing.
func (f *LogFields) WithError(err error) *LogFields {
	if err != nil {
		f.Set(FieldError, err.Error())
	}
	return f
}

func (f *LogFields) WithOperation(op string) *LogFields {
	return f.Set(FieldOperation, op)
}

// WithTransaction adds the identifying fields of a transaction.
func (f *LogFields) WithTransaction(id, profileID, typ, category, amount string, recurring bool) *LogFields {
	return f.Set(FieldTransactionID, id).
		Set(FieldProfileID, profileID).
		Set(FieldType, typ).
		Set(FieldCategory, category).
		Set(FieldAmount, amount).
		Set(FieldRecurring, recurring)
}

func (f *LogFields) WithHTTPRequest(method, path, query, userAgent string) *LogFields {
	f.Set(FieldMethod, method).Set(FieldPath, path)
	if query != "" {
		f.Set(FieldQuery, query)
	}
	if userAgent != "" {
		f.Set(FieldUserAgent, userAgent)
	}
	return f
}

func (f *LogFields) WithHTTPResponse(statusCode int, durationMs int64) *LogFields {
	return f.Set(FieldStatusCode, statusCode).
		Set(FieldDuration, durationMs).
		Set(FieldSuccess, statusCode < 400)
}

// ToSlice converts the fields to slog key/value arguments.
func (f *LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f.keys)*2)
	for _, k := range f.keys {
		slice = append(slice, k, f.values[k])
	}
	return slice
}
