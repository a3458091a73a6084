package we

// Entity is the decoded state of a deployment at a revision.
type Entity[T any] struct {
	Deployment DeploymentId
	Revision   Revision
	Timestamp  Timestamp
	Type       ContractName
	State      *T
}

func (e *Entity[T]) Initialized() bool {
	return e.Revision != InitialRevision && e.State != nil
}
