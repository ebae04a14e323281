package notifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/socialwire/notifier/db"
)

// FormField describes one boolean field of a user-facing settings form. The
// catalog changes over time, so forms are built from the current field list
// at request time rather than from a static definition.
type FormField struct {
	Name        string
	Default     bool
	Description string
}

// FormFields lists the fields a settings form should present: one boolean
// field per active non-internal notification type, ordered by name.
func (n *Notifier) FormFields(ctx context.Context) ([]FormField, error) {
	wrapMsg := "unable to list the settings form fields"

	tx, err := n.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	types, err := db.ListActiveExternalTypes(ctx, tx)
	if err != nil {
		return nil, err
	}

	fields := make([]FormField, 0, len(types))
	for _, nt := range types {
		fields = append(fields, FormField{
			Name:        nt.Name,
			Default:     nt.Default,
			Description: nt.Description,
		})
	}
	return fields, nil
}
