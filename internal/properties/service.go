// Package properties owns the listing collection: agent CRUD plus the
// deterministic placeholder-image assignment for listings without photos.
package properties

import (
	"context"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/sanitize"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "PROP"

type Service struct {
	store store.Store
	newID func(string) string
}

func NewService(s store.Store) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "properties store required")
	}
	return &Service{store: s, newID: identifier.New}, nil
}

// List returns every listing, each with a resolved image URL.
func (s *Service) List(ctx context.Context) []types.Property {
	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	for i := range properties {
		properties[i].ImageURL = s.resolveImage(ctx, properties[i])
	}
	return properties
}

// ListByAgent returns the listings owned by one agent.
func (s *Service) ListByAgent(ctx context.Context, agent string) []types.Property {
	var mine []types.Property
	for _, property := range s.List(ctx) {
		if property.Agent == agent {
			mine = append(mine, property)
		}
	}
	return mine
}

// Get returns one listing by id.
func (s *Service) Get(ctx context.Context, id string) (types.Property, error) {
	for _, property := range store.ReadList[types.Property](ctx, s.store, store.KeyProperties) {
		if property.ID == id {
			property.ImageURL = s.resolveImage(ctx, property)
			return property, nil
		}
	}
	return types.Property{}, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
}

// Input carries the writable listing fields.
type Input struct {
	Title       string
	Location    string
	Price       float64
	Bedrooms    int
	Bathrooms   int
	AreaSqft    int
	Description string
	ImageURL    string
	Status      enums.PropertyStatus
}

func (in Input) validate() error {
	if sanitize.Text(in.Title, 120) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if sanitize.Text(in.Location, 120) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if in.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if in.Bedrooms < 0 || in.Bathrooms < 0 || in.AreaSqft < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "bedrooms, bathrooms and area cannot be negative")
	}
	return nil
}

// Create adds a listing owned by the acting agent.
func (s *Service) Create(ctx context.Context, actor types.Actor, in Input) (*types.Property, error) {
	if !actor.IsAgent() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only agents can create listings")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if !status.IsValid() {
		status = enums.PropertyStatusAvailable
	}
	created := types.Property{
		ID:          s.newID(idPrefix),
		Title:       sanitize.Text(in.Title, 120),
		Location:    sanitize.Text(in.Location, 120),
		Price:       in.Price,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		AreaSqft:    in.AreaSqft,
		Description: sanitize.Text(in.Description, 2000),
		ImageURL:    sanitize.Text(in.ImageURL, 600),
		Status:      status,
		Agent:       actor.Username,
	}
	if !usableImageURL(created.ImageURL) {
		created.ImageURL = s.autoImage(ctx, created)
	}

	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	if err := store.WriteList(ctx, s.store, store.KeyProperties, append(properties, created)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist property")
	}
	return &created, nil
}

// Update edits a listing. Only the owning agent or an admin may edit.
func (s *Service) Update(ctx context.Context, actor types.Actor, id string, in Input) (*types.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	index := -1
	for i, property := range properties {
		if property.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}

	target := &properties[index]
	if !actor.IsAdmin() && !(actor.IsAgent() && target.Agent == actor.Username) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owning agent can edit this listing")
	}

	target.Title = sanitize.Text(in.Title, 120)
	target.Location = sanitize.Text(in.Location, 120)
	target.Price = in.Price
	target.Bedrooms = in.Bedrooms
	target.Bathrooms = in.Bathrooms
	target.AreaSqft = in.AreaSqft
	target.Description = sanitize.Text(in.Description, 2000)
	if in.Status.IsValid() {
		target.Status = in.Status
	}
	if imageURL := sanitize.Text(in.ImageURL, 600); usableImageURL(imageURL) {
		target.ImageURL = imageURL
	} else {
		target.ImageURL = s.autoImage(ctx, *target)
	}

	if err := store.WriteList(ctx, s.store, store.KeyProperties, properties); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist property")
	}
	updated := properties[index]
	return &updated, nil
}

// SetStatus flips a listing between available and unavailable.
func (s *Service) SetStatus(ctx context.Context, actor types.Actor, id string, status enums.PropertyStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "status must be available or unavailable")
	}
	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	for i := range properties {
		if properties[i].ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && properties[i].Agent == actor.Username) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owning agent can change this listing")
		}
		properties[i].Status = status
		if err := store.WriteList(ctx, s.store, store.KeyProperties, properties); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist property")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
}

// Delete removes a listing together with its linked appointments. Review
// records keep their denormalized snapshot of it.
func (s *Service) Delete(ctx context.Context, actor types.Actor, id string) error {
	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	for i, property := range properties {
		if property.ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && property.Agent == actor.Username) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owning agent can delete this listing")
		}
		next := append(properties[:i], properties[i+1:]...)
		if err := store.WriteList(ctx, s.store, store.KeyProperties, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist properties")
		}

		appointments := store.ReadList[types.Appointment](ctx, s.store, store.KeyAppointments)
		kept := appointments[:0]
		for _, appointment := range appointments {
			if appointment.PropertyID != id {
				kept = append(kept, appointment)
			}
		}
		if err := store.WriteList(ctx, s.store, store.KeyAppointments, kept); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist appointments")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
}

// resolveImage returns the stored image when it is usable, otherwise the
// deterministic placeholder for this listing.
func (s *Service) resolveImage(ctx context.Context, p types.Property) string {
	if usableImageURL(p.ImageURL) {
		return p.ImageURL
	}
	return s.autoImage(ctx, p)
}
