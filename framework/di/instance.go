package di

// Instance is a dependency placeholder occupying a constructor argument slot.
// The container replaces it with the result of Get(ID). An Instance with an
// empty ID stands for an untyped parameter and cannot be resolved.
type Instance struct {
	ID string
}

// InstanceOf returns a placeholder referring to id.
//
//	// Pass a named database connection as the first constructor argument.
//	c.Get("app.UserRepository", []any{di.InstanceOf("db.replica")}, nil)
func InstanceOf(id string) Instance {
	return Instance{ID: id}
}
