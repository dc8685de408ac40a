package config

// Operation names identify a request's intent. Callbacks, validation rules
// and required-on declarations are all scoped to one operation.
const (
	OperationCreate = "create"
	OperationFetch  = "fetch"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationNames lists all supported operations.
var OperationNames = []string{
	OperationCreate,
	OperationFetch,
	OperationUpdate,
	OperationDelete,
}

// KnownOperation reports whether name is a supported operation.
func KnownOperation(name string) bool {
	for _, op := range OperationNames {
		if op == name {
			return true
		}
	}
	return false
}
