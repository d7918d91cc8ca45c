package meshvis

// ContractError reports a violated API contract: an invalid flag
// combination, a setter called on the wrong parameter surface, or an index
// out of range. Op is the qualified name of the offending call.
type ContractError struct {
	Op     string
	Reason string
}

func (e ContractError) Error() string {
	return e.Op + ": " + e.Reason
}

// UnsupportedError reports that the active context lacks a version or
// extension the requested configuration needs.
type UnsupportedError struct {
	Op       string
	Required string
}

func (e UnsupportedError) Error() string {
	return e.Op + ": " + e.Required + " is not supported by the current context"
}
