package notifier

// Target is the arbitrary domain object a notification is about. The store
// only keeps the opaque (kind, id) pair; resolving it back into a domain
// object is the caller's business.
type Target interface {
	TargetKind() string
	TargetID() int64
}

// ContextProvider is implemented by targets that supply their own context
// mapping for description template rendering. A nil or empty mapping is
// discarded and the default `{"obj": target}` context is used instead.
type ContextProvider interface {
	NotificationContext() map[string]interface{}
}

// Comment is implemented by comment-like targets. When a notification's
// target is a comment, the description is rendered against the object the
// comment is about, with the comment itself injected into the context under
// the `comment` key.
type Comment interface {
	Target
	CommentTarget() Target
}

// ObjectRef is a bare (kind, id) target for callers that only know the stored
// reference, such as the message handlers.
type ObjectRef struct {
	Kind string
	ID   int64
}

// TargetKind returns the kind tag of the referenced object.
func (r ObjectRef) TargetKind() string {
	return r.Kind
}

// TargetID returns the numeric ID of the referenced object.
func (r ObjectRef) TargetID() int64 {
	return r.ID
}
