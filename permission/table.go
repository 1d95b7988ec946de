package permission

import "fmt"

// Operation names an access-controlled action.
type Operation uint8

const (
	OpRead Operation = iota
	OpCreate
	OpEdit
	OpDelete
	OpManageUsers
	OpAdminArea

	operationCount
)

var operationNames = [operationCount]string{
	OpRead:        "read",
	OpCreate:      "create",
	OpEdit:        "edit",
	OpDelete:      "delete",
	OpManageUsers: "manage_users",
	OpAdminArea:   "admin_area",
}

func (o Operation) String() string {
	if o >= operationCount {
		return fmt.Sprintf("operation(%d)", uint8(o))
	}
	return operationNames[o]
}

// Presets shared by several gates.
var (
	Admin    = NewSet(RoleAdmin)
	Director = NewSet(RoleAdmin, RoleDiretor)
	Analyst  = NewSet(RoleAdmin, RoleDiretor, RoleAnalista)
	Everyone = NewSet(RoleAdmin, RoleDiretor, RoleAnalista, RoleInspetor)
)

// table is indexed by Operation; every entry must be set.
var table = [operationCount]Set{
	OpRead:        Everyone,
	OpCreate:      Analyst,
	OpEdit:        Director,
	OpDelete:      Admin,
	OpManageUsers: Admin,
	OpAdminArea:   Admin,
}

// Allowed returns the role set permitted to perform op. Unknown operations
// yield the empty set.
func Allowed(op Operation) Set {
	if op >= operationCount {
		return 0
	}
	return table[op]
}

// Can reports whether role r may perform op.
func Can(r Role, op Operation) bool {
	return Allowed(op).Has(r)
}

// Operations lists every operation in the table.
func Operations() []Operation {
	out := make([]Operation, 0, operationCount)
	for op := OpRead; op < operationCount; op++ {
		out = append(out, op)
	}
	return out
}
